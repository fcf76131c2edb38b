package domain

import (
	"errors"
	"regexp"
	"strings"
)

const (
	maxFullNameLength = 50
	maxEmailLength    = 255
)

var (
	ErrInvalidFullName = errors.New("full name is required and cannot exceed 50 characters")
	ErrInvalidEmail    = errors.New("please provide a valid email address")
	ErrInvalidPhone    = errors.New("please provide a valid phone number (digits only)")
)

var (
	emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{8,15}$`)
)

// Customer is the contact embedded in every order. It is not shared between orders.
type Customer struct {
	FullName string
	Email    string
	Phone    string
}

// NewCustomer normalizes and validates contact details.
func NewCustomer(fullName, email, phone string) (Customer, error) {
	c := Customer{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Phone:    strings.TrimSpace(phone),
	}
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Validate checks format and length bounds.
func (c Customer) Validate() error {
	if c.FullName == "" || len(c.FullName) > maxFullNameLength {
		return ErrInvalidFullName
	}
	if len(c.Email) > maxEmailLength || !emailPattern.MatchString(c.Email) {
		return ErrInvalidEmail
	}
	if !phonePattern.MatchString(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// GivenName is the first token of the full name.
func (c Customer) GivenName() string {
	parts := strings.Fields(c.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// FamilyName is everything after the first token, or a single space when there is none.
func (c Customer) FamilyName() string {
	parts := strings.Fields(c.FullName)
	if len(parts) < 2 {
		return " "
	}
	return strings.Join(parts[1:], " ")
}
