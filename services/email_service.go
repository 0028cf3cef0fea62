package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"

	"github.com/Niwatda/softwareshop/model"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@softwareshop.dev"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendPasswordResetEmail sends a password reset email to the user
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, resetToken)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.appURL, resetToken)

	subject := "Reset your password"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #1a1a1a;">Password Reset</h2>
	<p>Hi %s,</p>
	<p>We received a request to reset the password for your account. Click the button below to choose a new one:</p>
	<p style="margin: 30px 0;">
		<a href="%s" style="background: #2563eb; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Reset Password</a>
	</p>
	<p>This link expires in 1 hour. If you did not request a reset, you can safely ignore this email.</p>
	<p style="color: #6b7280; font-size: 12px;">If the button does not work, copy this link into your browser:<br>%s</p>
</body>
</html>`, userName, resetLink, resetLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendOrderConfirmationEmail notifies the buyer that their payment was
// verified and the product is now downloadable.
func (e *EmailService) SendOrderConfirmationEmail(toEmail, userName string, order *model.Order) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping order confirmation for %s (order %d)", toEmail, order.ID)
		return fmt.Errorf("SMTP not configured")
	}

	productName := "your purchase"
	if order.Product.ID != 0 {
		productName = order.Product.Name
	}
	downloadsLink := fmt.Sprintf("%s/account/downloads", e.appURL)

	subject := fmt.Sprintf("Your order for %s is ready", productName)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #1a1a1a;">Payment Verified</h2>
	<p>Hi %s,</p>
	<p>We verified your payment for <strong>%s</strong> (order #%d, ฿%.2f). Your download is now available in your account.</p>
	<p style="margin: 30px 0;">
		<a href="%s" style="background: #16a34a; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Go to Downloads</a>
	</p>
	<p>Thanks for your purchase!</p>
</body>
</html>`, userName, productName, order.ID, float64(order.Amount)/100, downloadsLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendOrderRejectedEmail notifies the buyer that their slip could not
// be verified.
func (e *EmailService) SendOrderRejectedEmail(toEmail, userName string, order *model.Order) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping order rejection email for %s (order %d)", toEmail, order.ID)
		return fmt.Errorf("SMTP not configured")
	}

	productName := "your purchase"
	if order.Product.ID != 0 {
		productName = order.Product.Name
	}

	subject := fmt.Sprintf("Problem with your order for %s", productName)
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #1a1a1a;">Payment Could Not Be Verified</h2>
	<p>Hi %s,</p>
	<p>We could not verify the payment slip for your order #%d (<strong>%s</strong>). No money has been charged by us.</p>
	<p>If you believe this is a mistake, reply to this email with your transfer details and we will take another look.</p>
</body>
</html>`, userName, order.ID, productName)

	return e.sendEmail(toEmail, subject, body)
}

// sendEmail delivers one HTML email over SMTP with STARTTLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("Software Shop <%s>", e.from)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return conn.Quit()
}
