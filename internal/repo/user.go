package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-planner/internal/domain"
)

// UserRepo extends the generic store with lookup by email for login.
type UserRepo interface {
	Store[domain.User]

	// GetByEmail matches case-insensitively. Returns domain.ErrNotFound when
	// no account uses that email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type pgUserRepo struct {
	*pgStore[domain.User]
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{pgStore: newStore(db, userTable, "UserRepo")}
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower(@email)`, r.selectList())
	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

// Users own themselves, so ListByOwner filters on the primary key.
var userTable = table[domain.User]{
	name:     "users",
	columns:  []string{"id", "first_name", "last_name", "email", "password_hash", "created_at", "updated_at", "version"},
	writable: []string{"first_name", "last_name"},
	owner:    "id",
	scan:     scanUser,
	insert: func(u domain.User) pgx.NamedArgs {
		return pgx.NamedArgs{
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"created_at":    u.CreatedAt,
			"updated_at":    u.UpdatedAt,
		}
	},
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)
	err := s.Scan(&id, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		return domain.User{}, notFound(err)
	}
	u.ID = uuid.UUID(id.Bytes)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
