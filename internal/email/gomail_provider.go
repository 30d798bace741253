package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailProvider sends mail over SMTP via gomail.
type GomailProvider struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	renderer TemplateRenderer
}

func NewGomailProvider(host string, port int, username, password, fromEmail, fromName string, renderer TemplateRenderer) *GomailProvider {
	return &GomailProvider{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     fromEmail,
		fromName: fromName,
		renderer: renderer,
	}
}

func (p *GomailProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = p.from
	}
	m.SetAddressHeader("From", from, p.fromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: sending via SMTP: %w", err)
	}
	return nil
}

func (p *GomailProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return fmt.Errorf("email: template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("email: rendering template %s: %w", templateName, err)
	}

	return p.Send(&Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

func (p *GomailProvider) Validate() error {
	if p.dialer.Host == "" {
		return fmt.Errorf("email: SMTP host is not configured")
	}
	if p.from == "" {
		return fmt.Errorf("email: from address is not configured")
	}
	return nil
}
