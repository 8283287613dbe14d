package domain

import "time"

type Role string

const (
	RolePending Role = "pending"
	RoleUser    Role = "user"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusVerified UserStatus = "verified"
	UserStatusBlocked  UserStatus = "blocked"
)

type User struct {
	ID                  string
	Name                string
	Email               string
	PhoneNumber         string
	PinHash             string
	Role                Role
	Status              UserStatus
	WantToBecomeAgent   bool
	AgentRequestMessage *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
