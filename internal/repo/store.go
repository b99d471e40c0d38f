// Package repo contains all database access logic for the travel planner.
// A single generic Postgres store serves every entity kind; each kind
// contributes a table description (columns, scan and insert mapping).
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/travel-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store defines the persistence operations shared by every entity kind.
// The service layer depends on this interface, not the Postgres implementation.
type Store[T any] interface {
	// Create inserts a new row and returns the persisted record with its
	// store-assigned id.
	Create(ctx context.Context, v T) (T, error)

	// GetByID returns domain.ErrNotFound if no row with that id exists.
	GetByID(ctx context.Context, id uuid.UUID) (T, error)

	// List returns all rows, newest first, optionally paged.
	List(ctx context.Context, p domain.PageParams) ([]T, error)

	// ListByOwner returns the rows owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error)

	// Count returns the number of rows.
	Count(ctx context.Context) (int64, error)

	// Update writes the patched columns and updatedAt, conditioned on the row
	// still being at version. It returns domain.ErrStaleWrite when the row
	// has moved on or vanished.
	Update(ctx context.Context, id uuid.UUID, patch domain.Patch, updatedAt time.Time, version int64) (T, error)

	// Delete returns domain.ErrNotFound if the row does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan functions
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity kind maps onto its Postgres table.
type table[T any] struct {
	name string
	// columns is the SELECT/RETURNING list; scan reads them in this order.
	columns []string
	// writable lists the columns an Update may set.
	writable []string
	// owner is the column ListByOwner filters on.
	owner string
	scan  func(s scanner) (T, error)
	// insert returns the column values for a new row, id excluded.
	insert func(v T) pgx.NamedArgs
}

// pgStore is the Postgres implementation of Store.
type pgStore[T any] struct {
	db  db
	tbl table[T]
	op  string
}

func newStore[T any](db db, tbl table[T], op string) *pgStore[T] {
	return &pgStore[T]{db: db, tbl: tbl, op: op}
}

func (s *pgStore[T]) selectList() string {
	return strings.Join(s.tbl.columns, ", ")
}

// Create inserts a row and returns the full persisted record.
func (s *pgStore[T]) Create(ctx context.Context, v T) (T, error) {
	args := s.tbl.insert(v)
	cols := make([]string, 0, len(args))
	for _, c := range s.tbl.columns {
		if _, ok := args[c]; ok {
			cols = append(cols, c)
		}
	}
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (@%s) RETURNING %s`,
		s.tbl.name, strings.Join(cols, ", "), strings.Join(cols, ", @"), s.selectList())

	out, err := s.tbl.scan(s.db.QueryRow(ctx, q, args))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("repo.%s.Create: %w", s.op, mapPgError(err))
	}
	return out, nil
}

// GetByID retrieves a row by primary key.
func (s *pgStore[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = @id`, s.selectList(), s.tbl.name)
	out, err := s.tbl.scan(s.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("repo.%s.GetByID: %w", s.op, err)
	}
	return out, nil
}

// List returns all rows ordered by created_at descending.
func (s *pgStore[T]) List(ctx context.Context, p domain.PageParams) ([]T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s`, s.selectList(), s.tbl.name)
	out, err := s.query(ctx, q, pgx.NamedArgs{}, p)
	if err != nil {
		return nil, fmt.Errorf("repo.%s.List: %w", s.op, err)
	}
	return out, nil
}

// ListByOwner returns the rows whose owner column equals ownerID.
func (s *pgStore[T]) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PageParams) ([]T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = @owner`, s.selectList(), s.tbl.name, s.tbl.owner)
	out, err := s.query(ctx, q, pgx.NamedArgs{"owner": ownerID}, p)
	if err != nil {
		return nil, fmt.Errorf("repo.%s.ListByOwner: %w", s.op, err)
	}
	return out, nil
}

func (s *pgStore[T]) query(ctx context.Context, q string, args pgx.NamedArgs, p domain.PageParams) ([]T, error) {
	q += ` ORDER BY created_at DESC, id`
	if p.Paged() {
		q += ` LIMIT @limit OFFSET @offset`
		args["limit"] = p.Limit
		args["offset"] = p.Offset()
	}

	rows, err := s.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := s.tbl.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Count returns the total number of rows in the table.
func (s *pgStore[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	q := fmt.Sprintf(`SELECT count(*) FROM %s`, s.tbl.name)
	if err := s.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.%s.Count: %w", s.op, err)
	}
	return n, nil
}

// Update is a compare-and-set on the version column. Only the patched
// columns, updated_at and version change.
func (s *pgStore[T]) Update(ctx context.Context, id uuid.UUID, patch domain.Patch, updatedAt time.Time, version int64) (T, error) {
	var zero T
	args := pgx.NamedArgs{"id": id, "version": version, "updated_at": updatedAt}
	sets := make([]string, 0, len(patch)+2)
	for _, col := range patch.Columns() {
		if !s.writable(col) {
			return zero, fmt.Errorf("repo.%s.Update: column %q is not writable", s.op, col)
		}
		sets = append(sets, fmt.Sprintf("%s = @%s", col, col))
		args[col] = patch[col]
	}
	sets = append(sets, "updated_at = @updated_at", "version = version + 1")

	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = @id AND version = @version RETURNING %s`,
		s.tbl.name, strings.Join(sets, ", "), s.selectList())

	out, err := s.tbl.scan(s.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		return zero, fmt.Errorf("repo.%s.Update: %w", s.op, domain.ErrStaleWrite)
	}
	if err != nil {
		return zero, fmt.Errorf("repo.%s.Update: %w", s.op, mapPgError(err))
	}
	return out, nil
}

func (s *pgStore[T]) writable(col string) bool {
	for _, c := range s.tbl.writable {
		if c == col {
			return true
		}
	}
	return false
}

// Delete removes a row by primary key.
func (s *pgStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = @id`, s.tbl.name)
	tag, err := s.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.%s.Delete: %w", s.op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.%s.Delete: %w", s.op, domain.ErrNotFound)
	}
	return nil
}

// Postgres error codes the store translates into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError translates constraint violations into domain errors. Anything
// else is returned unchanged and surfaces as a server error.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return domain.ErrOwnerNotFound
	case pgCheckViolation:
		return domain.Invalid("constraint %s violated", pgErr.ConstraintName)
	}
	return err
}

// notFound converts pgx.ErrNoRows into domain.ErrNotFound for scan functions.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
