package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/dental-funnel/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrNoRecipient = errors.New("mail: clinic email not configured")

func NewEmailSender(host string, port int, user, password, from, clinicEmail string) *EmailSender {
	return &EmailSender{
		From:        from,
		ClinicEmail: clinicEmail,
		dialer:      gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) NotifyNewLead(event entity.FunnelEvent) error {
	data := LeadEmailData{
		LeadID: event.LeadID,
		Name:   event.Name,
		Email:  event.Email,
		Phone:  event.Phone,
		Reason: event.Reason,
	}
	return s.send(fmt.Sprintf("Nuevo lead: %s", event.Name), "new_lead.html", data)
}

func (s *EmailSender) NotifyPaymentApproved(event entity.FunnelEvent) error {
	data := PaymentEmailData{
		CaseID:   event.CaseID,
		Email:    event.Email,
		Amount:   strconv.FormatFloat(event.Amount, 'f', -1, 64),
		Currency: event.Currency,
	}
	return s.send(fmt.Sprintf("Pago aprobado: caso %s", event.CaseID), "payment_approved.html", data)
}

func (s *EmailSender) send(subject, tmpl string, data any) error {
	if s.ClinicEmail == "" {
		return ErrNoRecipient
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.ClinicEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
