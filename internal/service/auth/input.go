package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/heartmarshall/dicionario-backend/internal/domain"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
	maxEmailLength    = 254
	maxNameLength     = 100
)

// RegisterInput holds parameters for creating an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateEmail(i.Email)...)

	switch n := len(i.Password); {
	case n < minPasswordLength:
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	case n > maxPasswordLength:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long (max 72 bytes)"})
	}

	if utf8.RuneCountInString(i.Name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 100)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// LoginInput holds parameters for password login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks all fields and collects all errors.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateEmail(email string) []domain.FieldError {
	if email == "" {
		return []domain.FieldError{{Field: "email", Message: "required"}}
	}
	if len(email) > maxEmailLength {
		return []domain.FieldError{{Field: "email", Message: "too long"}}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []domain.FieldError{{Field: "email", Message: "invalid email format"}}
	}
	return nil
}
