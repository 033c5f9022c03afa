package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"canvasclub/models"
)

// Mailer sends admin notification email. The DB row is the source of truth;
// email is best effort and never fails the request.
type Mailer struct {
	apiKey       string
	contactEmail string
}

func NewMailer(apiKey, contactEmail string) *Mailer {
	return &Mailer{apiKey: apiKey, contactEmail: contactEmail}
}

// NotifyContactMessage emails the site admin about a new contact-form
// submission. Skips silently when mail is not configured.
func (m *Mailer) NotifyContactMessage(msg models.ContactMessage) {
	if m.apiKey == "" || m.contactEmail == "" {
		fmt.Println("Missing SendGrid config, skipping contact notification")
		return
	}

	subject := fmt.Sprintf("[Contact] %s", msg.Subject)
	if msg.Subject == "" {
		subject = fmt.Sprintf("[Contact] Message from %s", msg.Name)
	}

	body := fmt.Sprintf(`New contact message

From: %s <%s>
Subject: %s

%s

---
Message ID: %s`,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
		msg.ID,
	)

	from := mail.NewEmail("CanvasClub", m.contactEmail)
	to := mail.NewEmail("Admin", m.contactEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.Send(message)
	if err != nil {
		fmt.Printf("Error sending contact notification: %v\n", err)
	} else {
		fmt.Printf("Contact notification sent. Status Code: %d\n", response.StatusCode)
	}
}
