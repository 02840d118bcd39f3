package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AlibekovAA/auth-api/internal/common/clock"
	"github.com/AlibekovAA/auth-api/internal/common/crypto"
	"github.com/AlibekovAA/auth-api/internal/common/db"
	"github.com/AlibekovAA/auth-api/internal/user/domain"
)

type SQLiteRepository struct {
	conn  *sql.DB
	idGen crypto.IDGenerator
	clock clock.Clock
}

func NewSQLiteRepository(conn *sql.DB, idGen crypto.IDGenerator, clk clock.Clock) *SQLiteRepository {
	return &SQLiteRepository{conn: conn, idGen: idGen, clock: clk}
}

func (r *SQLiteRepository) Create(ctx context.Context, user domain.NewUser) (domain.User, error) {
	id, err := r.idGen.NewID()
	if err != nil {
		return domain.User{}, &Error{Op: "create user", Err: err}
	}

	created := domain.User{
		ID:           domain.ID(id),
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		CreatedAt:    r.clock.Now().UTC(),
	}

	start := time.Now()
	_, err = r.conn.ExecContext(
		ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(created.ID),
		created.Email,
		created.Username,
		created.PasswordHash,
		created.FirstName,
		created.LastName,
		created.CreatedAt,
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && isUniqueViolation(sqliteErr) {
			db.MeasureQueryDuration("create user", db.TableUsers, start)
			return domain.User{}, &ConflictError{
				Field:  conflictField(sqliteErr.Error()),
				Detail: sqliteErr.Error(),
				Err:    err,
			}
		}
		return domain.User{}, &Error{Op: "create user", Err: db.HandleExecError(err, "create user", db.TableUsers, start)}
	}

	db.MeasureQueryDuration("create user", db.TableUsers, start)
	return created, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.conn.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
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

// isUniqueViolation reports email or username collisions. A primary key
// collision is not a user conflict and stays a plain repository error.
func isUniqueViolation(err *sqlite.Error) bool {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		msg := err.Error()
		return strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "users.id")
	}
	return false
}
