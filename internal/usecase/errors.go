package usecase

import (
	"errors"
	"fmt"
)

// Códigos de validação devolvidos ao cliente junto com o 400.
const (
	CodeMissingField = "missing_field"
	CodeBadEmail     = "bad_email"
	CodeBadPhone     = "bad_phone"
	CodeBadRequest   = "bad_request"
)

// ValidationError: entrada do cliente rejeitada (400).
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError: token ausente ou rejeitado (401).
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError: recurso principal inexistente (404).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// UpstreamError: falha de um serviço externo (Dentalink, Mercado Pago, Supabase).
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}
func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError: falha de leitura/escrita no banco (500).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *PersistenceError) Unwrap() error { return e.Err }

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUpstreamError(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
