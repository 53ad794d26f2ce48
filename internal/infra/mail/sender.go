package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const leadMatchedTemplate = `
<h2>Novo lead casado com a planilha 🎯</h2>
<p><b>Empresa:</b> {{.CompanyName}}</p>
<p><b>Lead:</b> {{.LeadName}} ({{.LeadTitle}})</p>
<p><b>Adviser:</b> {{.AdviserName}}</p>
<p><b>LinkedIn:</b> <a href="{{.LinkedinURL}}">{{.LinkedinURL}}</a></p>
`

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendLeadMatched(to string, lead *entity.Lead) error {
	data := LeadMatchedEmailData{
		AdviserName: lead.AdviserName,
		LeadName:    lead.LeadName,
		LeadTitle:   lead.LeadTitle,
		CompanyName: lead.CompanyName,
		LinkedinURL: lead.LinkedinURL,
	}

	t, err := template.New("lead_matched").Parse(leadMatchedTemplate)
	if err != nil {
		return fmt.Errorf("erro ao processar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s (%s)", lead.LeadName, lead.CompanyName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
