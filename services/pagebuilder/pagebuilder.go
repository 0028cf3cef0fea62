// Package pagebuilder renders the typed content blocks that make up a
// builder page. Blocks are stored as a JSON array on the page row and
// rendered server-side into markup; all user-supplied text is escaped
// before it reaches the output.
package pagebuilder

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Block types a page may contain. Anything else renders nothing.
const (
	BlockHeading = "heading"
	BlockText    = "text"
	BlockImage   = "image"
	BlockVideo   = "video"
	BlockLink    = "link"
	BlockSpacer  = "spacer"
)

// Block is one typed content block. Meta holds the per-type keys the
// block honors (heading: size, image: alt/width, link: url/style,
// video: provider, spacer: height); unknown keys are ignored.
type Block struct {
	Type    string            `json:"type"`
	Content string            `json:"content,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// ParseBlocks decodes the stored JSON block array. A null or empty
// document is an empty page, not an error.
func ParseBlocks(raw []byte) ([]Block, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var blocks []Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("invalid block document: %w", err)
	}
	return blocks, nil
}

// ValidateBlocks rejects a block document containing unknown types.
// Used on the write path; the render path silently skips unknowns so
// old pages keep working after a type is retired.
func ValidateBlocks(blocks []Block) error {
	for i, b := range blocks {
		switch b.Type {
		case BlockHeading, BlockText, BlockImage, BlockVideo, BlockLink, BlockSpacer:
		default:
			return fmt.Errorf("block %d has unknown type %q", i, b.Type)
		}
	}
	return nil
}

// Render converts blocks to markup. It is a pure function of its
// input; unknown block types contribute nothing to the output.
func Render(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		renderBlock(&sb, b)
	}
	return sb.String()
}

func renderBlock(sb *strings.Builder, b Block) {
	switch b.Type {
	case BlockHeading:
		level := headingLevel(b.Meta["size"])
		fmt.Fprintf(sb, "<h%d>%s</h%d>\n", level, html.EscapeString(b.Content), level)

	case BlockText:
		fmt.Fprintf(sb, "<p>%s</p>\n", html.EscapeString(b.Content))

	case BlockImage:
		src := b.Content
		if !isSafeURL(src) {
			return
		}
		alt := html.EscapeString(b.Meta["alt"])
		if width := b.Meta["width"]; width != "" {
			fmt.Fprintf(sb, "<img src=\"%s\" alt=\"%s\" width=\"%s\">\n", html.EscapeString(src), alt, html.EscapeString(width))
			return
		}
		fmt.Fprintf(sb, "<img src=\"%s\" alt=\"%s\">\n", html.EscapeString(src), alt)

	case BlockVideo:
		src := b.Content
		if !isSafeURL(src) {
			return
		}
		provider := html.EscapeString(b.Meta["provider"])
		fmt.Fprintf(sb, "<div class=\"video\" data-provider=\"%s\"><iframe src=\"%s\" allowfullscreen></iframe></div>\n", provider, html.EscapeString(src))

	case BlockLink:
		url := b.Meta["url"]
		if !isSafeURL(url) {
			return
		}
		style := b.Meta["style"]
		if style == "" {
			style = "default"
		}
		fmt.Fprintf(sb, "<a class=\"link-%s\" href=\"%s\">%s</a>\n", html.EscapeString(style), html.EscapeString(url), html.EscapeString(b.Content))

	case BlockSpacer:
		height := b.Meta["height"]
		if height == "" {
			height = "24"
		}
		fmt.Fprintf(sb, "<div class=\"spacer\" style=\"height:%spx\"></div>\n", html.EscapeString(height))
	}
}

// headingLevel clamps the size meta key to h1..h6, defaulting to h2.
func headingLevel(size string) int {
	switch size {
	case "1", "2", "3", "4", "5", "6":
		return int(size[0] - '0')
	}
	return 2
}

// isSafeURL allows only http(s) and site-relative URLs so a block
// cannot smuggle javascript: or data: schemes into the page.
func isSafeURL(u string) bool {
	if u == "" {
		return false
	}
	return strings.HasPrefix(u, "https://") ||
		strings.HasPrefix(u, "http://") ||
		(strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//"))
}
