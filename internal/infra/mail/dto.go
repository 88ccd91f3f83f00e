package mail

import "gopkg.in/gomail.v2"

type LeadEmailData struct {
	LeadID string
	Name   string
	Email  string
	Phone  string
	Reason string
}

type PaymentEmailData struct {
	CaseID   string
	Email    string
	Amount   string
	Currency string
}

// dialer é satisfeito por *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From        string
	ClinicEmail string
	dialer      dialer
}
