package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
)

// AUTOINCREMENT keeps ids of deleted rows from being handed out again.
const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	given_name TEXT NOT NULL,
	family_name TEXT NOT NULL,
	birth_date DATE NOT NULL,
	email TEXT NOT NULL,
	address TEXT NOT NULL
);
`

const (
	insertUser = `
INSERT INTO users (given_name, family_name, birth_date, email, address)
VALUES (?, ?, ?, ?, ?)`

	selectUsers = `
SELECT id, given_name, family_name, birth_date, email, address
FROM users`
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUser,
		user.GivenName,
		user.FamilyName,
		domain.FormatDate(user.BirthDate),
		user.Email,
		user.Address,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

// CreateBatch inserts all users in one transaction and assigns their ids.
func (r *UserRepository) CreateBatch(ctx context.Context, users []domain.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	stmt, err := tx.PrepareContext(ctx, insertUser)
	if err != nil {
		return 0, fmt.Errorf("prepare insert user: %w", err)
	}
	defer stmt.Close()

	for i := range users {
		res, err := stmt.ExecContext(ctx,
			users[i].GivenName,
			users[i].FamilyName,
			domain.FormatDate(users[i].BirthDate),
			users[i].Email,
			users[i].Address,
		)
		if err != nil {
			return 0, fmt.Errorf("insert user: %w", err)
		}
		if users[i].ID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("user last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(users), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsers+`
ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUsers+`
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// Update overwrites every field of the user with user.ID.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET given_name = ?, family_name = ?, birth_date = ?, email = ?, address = ?
WHERE id = ?`,
		user.GivenName,
		user.FamilyName,
		domain.FormatDate(user.BirthDate),
		user.Email,
		user.Address,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the user with the given id. Missing ids are not an error.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user      domain.User
		birthDate dateValue
	)
	if err := row.Scan(
		&user.ID,
		&user.GivenName,
		&user.FamilyName,
		&birthDate,
		&user.Email,
		&user.Address,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.BirthDate = birthDate.Time
	return &user, nil
}

// dateValue scans a DATE column. The driver hands DATE values back either as
// time.Time or as the raw text, depending on whether it could parse them.
type dateValue struct {
	time.Time
}

func (d *dateValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = domain.Today(v.UTC())
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported birth_date type %T", src)
	}
}

func (d *dateValue) parse(s string) error {
	if len(s) > len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return fmt.Errorf("parse birth_date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
