package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/auth-api/internal/common/crypto"
	"github.com/AlibekovAA/auth-api/internal/common/db"
	"github.com/AlibekovAA/auth-api/internal/user/domain"
)

const pgUniqueViolation = "23505"

const userColumns = `id, email, username, password, first_name, last_name, created_at`

type PgRepository struct {
	pool  *pgxpool.Pool
	idGen crypto.IDGenerator
}

func NewPgRepository(pool *pgxpool.Pool, idGen crypto.IDGenerator) *PgRepository {
	return &PgRepository{pool: pool, idGen: idGen}
}

func (r *PgRepository) Create(ctx context.Context, user domain.NewUser) (domain.User, error) {
	id, err := r.idGen.NewID()
	if err != nil {
		return domain.User{}, &Error{Op: "create user", Err: err}
	}

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (id, email, username, password, first_name, last_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id::text, email, username, password, first_name, last_name, created_at`,
		id,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
	)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, classifyPgError(err, "create user", start)
	}

	db.MeasureQueryDuration("create user", db.TableUsers, start)
	return created, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id::text, email, username, password, first_name, last_name, created_at
		 FROM users WHERE email = $1`,
		email,
	)

	user, err := scanUser(row)
	if err = db.HandleQueryError(err, ErrUserNotFound, "find user by email", db.TableUsers, start); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, &Error{Op: "find user by email", Err: err}
	}

	return user, nil
}

// classifyPgError turns a unique violation into *ConflictError and any
// other failure into *Error.
func classifyPgError(err error, op string, start time.Time) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		db.MeasureQueryDuration(op, db.TableUsers, start)
		return &ConflictError{
			Field:  conflictField(pgErr.ConstraintName, pgErr.Detail),
			Detail: pgErr.Detail,
			Err:    err,
		}
	}
	return &Error{Op: op, Err: db.HandleExecError(err, op, db.TableUsers, start)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	err := row.Scan(
		&id,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	return user, nil
}
