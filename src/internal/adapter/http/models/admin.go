package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var allowedApprovalRoles = []string{"user", "agent"}

type ApproveUserRequest struct {
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	BonusAmount decimal.Decimal `json:"bonusAmount"`
}

func (r ApproveUserRequest) Validate() error {
	var errs []string

	if !isEmail(r.Email) {
		errs = append(errs, "email is not valid")
	}
	if !isAllowedApprovalRole(r.Role) {
		errs = append(errs, "role must be one of: "+strings.Join(allowedApprovalRoles, ", "))
	}
	if r.BonusAmount.IsNegative() {
		errs = append(errs, "bonusAmount cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type MakeAgentRequest struct {
	Email       string          `json:"email"`
	BonusAmount decimal.Decimal `json:"bonusAmount"`
}

func (r MakeAgentRequest) Validate() error {
	var errs []string

	if !isEmail(r.Email) {
		errs = append(errs, "email is not valid")
	}
	if r.BonusAmount.IsNegative() {
		errs = append(errs, "bonusAmount cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ApproveUserResponse struct {
	User    UserResponse     `json:"user"`
	Balance *decimal.Decimal `json:"balance"`
}

func isAllowedApprovalRole(value string) bool {
	for _, allowed := range allowedApprovalRoles {
		if strings.EqualFold(strings.TrimSpace(value), allowed) {
			return true
		}
	}
	return false
}
