package usecase

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate    = validator.New()
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitsRe = regexp.MustCompile(`\D`)
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 12
)

// CaptureLeadInput é o corpo de POST /leads.
type CaptureLeadInput struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required"`
	Phone  string `json:"phone" validate:"required"`
	RUT    string `json:"rut,omitempty"`
	Reason string `json:"reason,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// ValidateCaptureLeadInput valida na ordem: obrigatórios, email, telefone.
// Para no primeiro erro.
func ValidateCaptureLeadInput(input CaptureLeadInput) *ValidationError {
	trimmed := CaptureLeadInput{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Phone: strings.TrimSpace(input.Phone),
	}

	if err := validate.Struct(trimmed); err != nil {
		field := "name"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		return &ValidationError{Field: field, Code: CodeMissingField, Message: "is required"}
	}

	if !isValidEmail(trimmed.Email) {
		return &ValidationError{Field: "email", Code: CodeBadEmail, Message: "is invalid"}
	}

	if !isValidPhoneNumber(trimmed.Phone) {
		return &ValidationError{Field: "phone", Code: CodeBadPhone, Message: "must have between 8 and 12 digits"}
	}

	return nil
}

// NormalizeEmail deixa o email no formato usado em todos os joins.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func DigitsOnly(s string) string {
	return nonDigitsRe.ReplaceAllString(s, "")
}

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidPhoneNumber(phone string) bool {
	n := len(DigitsOnly(phone))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}
