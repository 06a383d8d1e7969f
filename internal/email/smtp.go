// Package email delivers the new-lead notification to the sales inbox.
package email

import (
	"context"
	"fmt"
	"html"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"webexpress_backend/platform/config"
)

// LeadNotification is the content of the sales-inbox email for a completed
// quote.
type LeadNotification struct {
	ContactName  string
	ContactEmail string
	ContactPhone string
	PlanName     string
	InitialTotal string
	MonthlyTotal string
	WhatsAppLink string
	Message      string
}

// Sender delivers lead notifications.
type Sender interface {
	SendLeadNotification(ctx context.Context, n LeadNotification) error
}

// NoopSender drops notifications. Used when email is disabled.
type NoopSender struct{}

// SendLeadNotification implements Sender.
func (NoopSender) SendLeadNotification(ctx context.Context, n LeadNotification) error {
	return nil
}

// SMTPSender delivers through a direct SMTP connection via go-mail.
type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	salesInbox string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:       cfg.GetSMTPHost(),
		port:       cfg.GetSMTPPort(),
		username:   cfg.GetSMTPUsername(),
		password:   cfg.GetSMTPPassword(),
		fromName:   cfg.GetEmailFromName(),
		fromEmail:  cfg.GetEmailFromAddress(),
		salesInbox: cfg.GetSalesInbox(),
	}
}

var _ Sender = (*SMTPSender)(nil)
var _ Sender = NoopSender{}

// SendLeadNotification emails the sales inbox about a completed quote.
func (s *SMTPSender) SendLeadNotification(ctx context.Context, n LeadNotification) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(s.salesInbox); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Nueva cotización: %s (%s)", n.ContactName, n.PlanName))
	msg.SetBodyString(gomail.TypeTextHTML, renderLeadNotification(n))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func renderLeadNotification(n LeadNotification) string {
	esc := html.EscapeString
	return fmt.Sprintf(`<html><body>
<h2>Nueva cotización completada</h2>
<table cellpadding="4">
<tr><td><b>Nombre</b></td><td>%s</td></tr>
<tr><td><b>Email</b></td><td>%s</td></tr>
<tr><td><b>Teléfono</b></td><td>%s</td></tr>
<tr><td><b>Plan</b></td><td>%s</td></tr>
<tr><td><b>Total inicial</b></td><td>%s</td></tr>
<tr><td><b>Mensualidad</b></td><td>%s</td></tr>
</table>
<p><a href="%s">Responder por WhatsApp</a></p>
<hr>
<pre>%s</pre>
</body></html>`,
		esc(n.ContactName), esc(n.ContactEmail), esc(n.ContactPhone),
		esc(n.PlanName), esc(n.InitialTotal), esc(n.MonthlyTotal),
		esc(n.WhatsAppLink), esc(n.Message))
}
