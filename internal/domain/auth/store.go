package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindCredentialByUsername(ctx context.Context, username string) (Credential, error) {
	var out Credential
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, role, password_hash
    FROM users
    WHERE username = $1
  `, username).Scan(&out.UserID, &out.Username, &out.Role, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	if err != nil {
		return Credential{}, err
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, account NewAccount) (User, error) {
	var birthday *time.Time
	if !account.Birthday.IsZero() {
		birthday = &account.Birthday
	}

	var out User
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (
      employee_number, username, password_hash, role,
      first_name, last_name, address, gender, birthday,
      tin_number, gsis_number, pagibig_number, department_id
    )
    VALUES (
      lpad(nextval('employee_number_seq')::text, 6, '0'),
      $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::uuid
    )
    RETURNING id, employee_number, username, role, first_name, last_name,
              address, gender, birthday, tin_number, gsis_number, pagibig_number,
              COALESCE(department_id::text, ''), created_at
  `, account.Username, account.PasswordHash, account.Role,
		account.FirstName, account.LastName, account.Address, account.Gender, birthday,
		account.TINNumber, account.GSISNumber, account.PagibigNumber, account.DepartmentID,
	).Scan(
		&out.ID, &out.EmployeeNumber, &out.Username, &out.Role,
		&out.FirstName, &out.LastName, &out.Address, &out.Gender, &out.Birthday,
		&out.TINNumber, &out.GSISNumber, &out.PagibigNumber, &out.DepartmentID, &out.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, username, role, first_name, last_name,
           COALESCE(address, ''), COALESCE(gender, ''), birthday,
           COALESCE(tin_number, ''), COALESCE(gsis_number, ''), COALESCE(pagibig_number, ''),
           COALESCE(department_id::text, ''), created_at
    FROM users
    WHERE id = $1
  `, userID).Scan(
		&out.ID, &out.EmployeeNumber, &out.Username, &out.Role,
		&out.FirstName, &out.LastName, &out.Address, &out.Gender, &out.Birthday,
		&out.TINNumber, &out.GSISNumber, &out.PagibigNumber, &out.DepartmentID, &out.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return out, nil
}
