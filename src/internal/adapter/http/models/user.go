package models

import (
	"errors"
	"strings"
	"time"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"number"`
	Pin         string `json:"pin"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !isEmail(r.Email) {
		errs = append(errs, "email is not valid")
	}
	if !isPhoneNumber(r.PhoneNumber) {
		errs = append(errs, "number must be 10 to 15 digits")
	}
	if !isPin(r.Pin) {
		errs = append(errs, "pin must be 4 to 6 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"number"`
	Pin         string `json:"pin"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "email or phone number required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AgentRequestRequest struct {
	WantToBecomeAgent bool   `json:"wantToBecomeAgent"`
	Message           string `json:"message"`
}

type UserResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PhoneNumber         string    `json:"number"`
	Role                string    `json:"role"`
	Status              string    `json:"status"`
	WantToBecomeAgent   bool      `json:"wantToBecomeAgent,omitempty"`
	AgentRequestMessage string    `json:"message,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func isEmail(value string) bool {
	trimmed := strings.TrimSpace(value)
	at := strings.Index(trimmed, "@")
	dot := strings.LastIndex(trimmed, ".")
	return at > 0 && dot > at+1 && dot < len(trimmed)-1 && !strings.Contains(trimmed, " ")
}

func isPin(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= 4 && len(trimmed) <= 6 && digitsOnly(trimmed)
}
