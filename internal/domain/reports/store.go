package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	DailySummary(ctx context.Context, date time.Time, departmentID string) ([]SummaryRow, error)
	DetailRows(ctx context.Context, from, to time.Time, departmentID string) ([]DetailRow, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) DailySummary(ctx context.Context, date time.Time, departmentID string) ([]SummaryRow, error) {
	query := `
    SELECT d.id, d.name,
           COUNT(u.id),
           COUNT(a.id) FILTER (WHERE a.status = 'present'),
           COUNT(a.id) FILTER (WHERE a.status = 'completed')
    FROM departments d
    LEFT JOIN users u ON u.department_id = d.id
    LEFT JOIN attendance_records a ON a.user_id = u.id AND a.att_date = $1
  `
	args := []any{date}
	if departmentID != "" {
		query += " WHERE d.id = $2"
		args = append(args, departmentID)
	}
	query += " GROUP BY d.id, d.name ORDER BY d.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.DepartmentID, &row.DepartmentName, &row.Headcount, &row.Present, &row.Completed); err != nil {
			return nil, err
		}
		row.Absent = row.Headcount - row.Present - row.Completed
		if row.Absent < 0 {
			row.Absent = 0
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) DetailRows(ctx context.Context, from, to time.Time, departmentID string) ([]DetailRow, error) {
	query := `
    SELECT u.employee_number, u.first_name, u.last_name, COALESCE(d.name, ''),
           a.att_date, a.time_in, a.time_out, a.status
    FROM attendance_records a
    JOIN users u ON a.user_id = u.id
    LEFT JOIN departments d ON u.department_id = d.id
    WHERE a.att_date >= $1 AND a.att_date <= $2
  `
	args := []any{from, to}
	if departmentID != "" {
		query += " AND u.department_id = $3"
		args = append(args, departmentID)
	}
	query += " ORDER BY a.att_date DESC, u.last_name, u.first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DetailRow
	for rows.Next() {
		var row DetailRow
		if err := rows.Scan(
			&row.EmployeeNumber, &row.FirstName, &row.LastName, &row.DepartmentName,
			&row.Date, &row.TimeIn, &row.TimeOut, &row.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
