package domain

import "context"

type UserFilter struct {
	Status            string
	Role              string
	WantToBecomeAgent *bool
}

type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	UpdateRoleAndStatus(ctx context.Context, email string, role Role, status UserStatus) (User, error)
	SetAgentRequest(ctx context.Context, email string, wantToBecomeAgent bool, message string) (User, error)
	PromoteToAgent(ctx context.Context, email string) (User, error)
}
