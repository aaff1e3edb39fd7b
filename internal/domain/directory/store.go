package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type StoreAPI interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	ListEmployees(ctx context.Context, departmentID string, limit, offset int) ([]Employee, error)
	DepartmentHeadedBy(ctx context.Context, userID string) (Department, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(head_user_id::text, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.HeadUserID, &dept.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

// ListEmployees returns employees, optionally scoped to a department.
func (s *Store) ListEmployees(ctx context.Context, departmentID string, limit, offset int) ([]Employee, error) {
	query := `
    SELECT u.id, u.employee_number, u.username, u.role, u.first_name, u.last_name,
           COALESCE(u.department_id::text, ''), COALESCE(d.name, ''), u.created_at
    FROM users u
    LEFT JOIN departments d ON u.department_id = d.id
  `
	args := []any{}
	if departmentID != "" {
		query += " WHERE u.department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY u.last_name, u.first_name"
	if departmentID != "" {
		query += " LIMIT $2 OFFSET $3"
	} else {
		query += " LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.EmployeeNumber, &emp.Username, &emp.Role,
			&emp.FirstName, &emp.LastName, &emp.DepartmentID, &emp.DepartmentName, &emp.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentHeadedBy(ctx context.Context, userID string) (Department, error) {
	var out Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(head_user_id::text, ''), created_at
    FROM departments
    WHERE head_user_id = $1
  `, userID).Scan(&out.ID, &out.Name, &out.HeadUserID, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	if err != nil {
		return Department{}, err
	}
	return out, nil
}
