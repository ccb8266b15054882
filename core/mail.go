package core

import (
	"bytes"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		BodyTemplate string // a text/template body; rendered with TemplateData
		TemplateData interface{}
		TextContent  string
	}

	// ContextData wraps TemplateData with globals available to all templates.
	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent from BodyStr or BodyTemplate.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.BodyTemplate == "" {
		return nil
	}
	tmpl, err := texttmpl.New("body").Parse(m.BodyTemplate)
	if err != nil {
		return errors.Wrap(err, "parsing email template")
	}
	var buf bytes.Buffer
	data := ContextData{FrontendBaseURL: frontendBaseURL, Data: m.TemplateData}
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Wrap(err, "rendering email template")
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != ""
}
