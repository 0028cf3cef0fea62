package slipvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ledongthuc/pdf"
)

// SlipLimits defines the validation limits for proof-of-payment uploads
type SlipLimits struct {
	MaxFileSizeMB int
	MaxPDFPages   int
}

// DefaultLimits for slip uploads: small images or a short PDF receipt
var DefaultLimits = SlipLimits{
	MaxFileSizeMB: 5,
	MaxPDFPages:   5,
}

// ValidationResult contains the result of slip validation
type ValidationResult struct {
	Valid       bool
	ContentType string
	FileSize    int64
	Error       string
}

var imageSignatures = []struct {
	prefix      []byte
	contentType string
}{
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{[]byte("RIFF"), "image/webp"}, // RIFF....WEBP, checked further below
}

// SniffContentType identifies a supported slip content type from the
// leading bytes, or returns "" when unsupported.
func SniffContentType(content []byte) string {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(content, sig.prefix) {
			if sig.contentType == "image/webp" {
				if len(content) < 12 || !bytes.Equal(content[8:12], []byte("WEBP")) {
					continue
				}
			}
			return sig.contentType
		}
	}
	if bytes.HasPrefix(content, []byte("%PDF-")) {
		return "application/pdf"
	}
	return ""
}

// ValidateSlipBytes validates slip content against the given limits.
// Accepted types: JPEG, PNG, WEBP images and PDF receipts.
func ValidateSlipBytes(content []byte, limits SlipLimits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if result.FileSize > maxSize {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result, nil
	}

	contentType := SniffContentType(content)
	if contentType == "" {
		result.Error = "Only JPG, PNG, WEBP images or PDF receipts are supported"
		return result, nil
	}
	result.ContentType = contentType

	if contentType == "application/pdf" {
		pageCount, err := pdfPageCount(content)
		if err != nil {
			result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
			return result, nil
		}
		if pageCount == 0 {
			result.Error = "PDF has no pages"
			return result, nil
		}
		if pageCount > limits.MaxPDFPages {
			result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for a receipt",
				pageCount, limits.MaxPDFPages)
			return result, nil
		}
	}

	result.Valid = true
	return result, nil
}

// ValidateSlipFile validates a multipart slip upload against the given limits
func ValidateSlipFile(file *multipart.FileHeader, limits SlipLimits) (*ValidationResult, []byte, error) {
	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return &ValidationResult{
			FileSize: file.Size,
			Error:    fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB),
		}, nil, nil
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := ValidateSlipBytes(content, limits)
	if err != nil {
		return nil, nil, err
	}
	return result, content, nil
}

// sanitizePDF removes trailing garbage data after the last %%EOF marker
func sanitizePDF(content []byte) []byte {
	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}
	if pdfEnd < len(content) {
		return content[:pdfEnd]
	}
	return content
}

// pdfPageCount returns the number of pages in a PDF
func pdfPageCount(content []byte) (int, error) {
	content = sanitizePDF(content)
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}
