package services

import (
	"fmt"
	"log"
	"strings"

	"defensoria_app_go/config"
	"defensoria_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// BuildAssignmentEmail builds the notification sent to an attorney when a
// case is assigned to them
func BuildAssignmentEmail(c *models.Case, caseTypeName string, attorney *models.User) *Email {
	subject := fmt.Sprintf("Nuevo expediente asignado: %s", c.CaseNumber)
	text := fmt.Sprintf(
		"Hola %s,\n\nSe le ha asignado el expediente %s (%s).\n\nIngrese al sistema para tomarlo.\n",
		attorney.Name, c.CaseNumber, caseTypeName)
	html := fmt.Sprintf(
		"<p>Hola %s,</p><p>Se le ha asignado el expediente <strong>%s</strong> (%s).</p><p>Ingrese al sistema para tomarlo.</p>",
		attorney.Name, c.CaseNumber, caseTypeName)

	return &Email{
		To:       []string{attorney.Email},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
}

// SendEmail sends an email using the Resend API. In test mode the email is
// logged to the console instead of being sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine so handlers don't block on
// the Resend API
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Failed to send email to %v: %v", emailCopy.To, err)
		}
	}()
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
