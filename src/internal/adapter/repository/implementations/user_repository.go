package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone_number, pin_hash, role, status, want_to_become_agent, agent_request_message, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"email":       user.Email,
		"phoneNumber": user.PhoneNumber,
		"role":        user.Role,
	})

	const query = `
INSERT INTO users (
	name,
	email,
	phone_number,
	pin_hash,
	role,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PhoneNumber,
		user.PinHash,
		user.Role,
		user.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			logger.Info("user repository create duplicate", logger.Fields{
				"email": user.Email,
			})
			return domain.User{}, domain.ErrDuplicateRecord
		}
		logger.Error("user repository create failed", err, logger.Fields{
			"email": user.Email,
		})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	logger.Info("user repository create success", logger.Fields{
		"userId": created.ID,
		"email":  created.Email,
	})
	return created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"email": email,
			})
			return domain.User{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository get by email failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (domain.User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE phone_number = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"phoneNumber": phoneNumber,
			})
			return domain.User{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository get by phone number failed", err, logger.Fields{
			"phoneNumber": phoneNumber,
		})
		return domain.User{}, fmt.Errorf("get user by phone number: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	logger.Info("user repository list", logger.Fields{
		"status": filter.Status,
		"role":   filter.Role,
	})

	query := `
SELECT ` + userColumns + `
FROM users
WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.WantToBecomeAgent != nil {
		args = append(args, *filter.WantToBecomeAgent)
		query += fmt.Sprintf(" AND want_to_become_agent = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("user repository list failed", err, nil)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) UpdateRoleAndStatus(ctx context.Context, email string, role domain.Role, status domain.UserStatus) (domain.User, error) {
	logger.Info("user repository update role and status", logger.Fields{
		"email":  email,
		"role":   role,
		"status": status,
	})

	const query = `
UPDATE users
SET role = $2,
    status = $3,
    updated_at = NOW()
WHERE email = $1
RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email, role, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository update role and status failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, fmt.Errorf("update user role and status: %w", err)
	}

	return user, nil
}

func (r *UserRepository) SetAgentRequest(ctx context.Context, email string, wantToBecomeAgent bool, message string) (domain.User, error) {
	logger.Info("user repository set agent request", logger.Fields{
		"email":             email,
		"wantToBecomeAgent": wantToBecomeAgent,
	})

	const query = `
UPDATE users
SET want_to_become_agent = $2,
    agent_request_message = $3,
    updated_at = NOW()
WHERE email = $1
RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email, wantToBecomeAgent, message))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository set agent request failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, fmt.Errorf("set agent request: %w", err)
	}

	return user, nil
}

func (r *UserRepository) PromoteToAgent(ctx context.Context, email string) (domain.User, error) {
	logger.Info("user repository promote to agent", logger.Fields{
		"email": email,
	})

	const query = `
UPDATE users
SET role = 'agent',
    want_to_become_agent = FALSE,
    agent_request_message = NULL,
    updated_at = NOW()
WHERE email = $1
RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository promote to agent failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, fmt.Errorf("promote user to agent: %w", err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var message sql.NullString
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNumber,
		&user.PinHash,
		&user.Role,
		&user.Status,
		&user.WantToBecomeAgent,
		&message,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return domain.User{}, err
	}
	if message.Valid {
		value := message.String
		user.AgentRequestMessage = &value
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
