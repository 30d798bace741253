package email

import "devlink_backend/internal/logger"

// NoopProvider logs instead of sending. Used when SMTP is unconfigured so
// the rest of the app never has to nil-check the mailer.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	logger.Debug("email: send skipped (no SMTP configured)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *NoopProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	logger.Debug("email: template send skipped (no SMTP configured)", "to", to, "template", templateName)
	return nil
}

func (p *NoopProvider) Validate() error {
	return nil
}
