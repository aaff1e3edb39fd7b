package attendance

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

const recordColumns = `
  id, user_id, att_date, time_in, time_out, status,
  COALESCE(location, ''), COALESCE(method, ''), COALESCE(overtime, ''), COALESCE(remarks, '')
`

func scanRecord(row pgx.Row) (Record, error) {
	var out Record
	err := row.Scan(
		&out.ID, &out.UserID, &out.Date, &out.TimeIn, &out.TimeOut, &out.Status,
		&out.Location, &out.Method, &out.Overtime, &out.Remarks,
	)
	return out, err
}

// InsertTimeIn creates the day's record. The UNIQUE(user_id, att_date)
// constraint makes the insert the arbiter for concurrent time-ins: the
// loser's 23505 surfaces as ErrAlreadyLoggedIn.
func (s *Store) InsertTimeIn(ctx context.Context, userID string, date, timeIn time.Time, location, method string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (user_id, att_date, time_in, status, location, method)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+recordColumns+`
  `, userID, date, timeIn, StatusPresent, location, method)

	out, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrAlreadyLoggedIn
		}
		return Record{}, err
	}
	return out, nil
}

func (s *Store) SetTimeOut(ctx context.Context, userID string, date, timeOut time.Time) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET time_out = $1, status = $2
    WHERE user_id = $3 AND att_date = $4 AND time_out IS NULL
    RETURNING `+recordColumns+`
  `, timeOut, StatusCompleted, userID, date)

	out, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either no time-in yet, or the day is already completed.
		if _, lookupErr := s.RecordForDate(ctx, userID, date); lookupErr != nil {
			if errors.Is(lookupErr, ErrNotYetTimedIn) {
				return Record{}, ErrNotYetTimedIn
			}
			return Record{}, lookupErr
		}
		return Record{}, ErrAlreadyLoggedOut
	}
	if err != nil {
		return Record{}, err
	}
	return out, nil
}

func (s *Store) RecordForDate(ctx context.Context, userID string, date time.Time) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE user_id = $1 AND att_date = $2
  `, userID, date)

	out, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotYetTimedIn
	}
	if err != nil {
		return Record{}, err
	}
	return out, nil
}

func (s *Store) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE user_id = $1 AND att_date >= $2 AND att_date <= $3
    ORDER BY att_date DESC
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) StationByID(ctx context.Context, stationID string) (Station, error) {
	var out Station
	err := s.DB.QueryRow(ctx, `
    SELECT id, label, totp_secret, created_at
    FROM kiosk_stations
    WHERE id = $1
  `, stationID).Scan(&out.ID, &out.Label, &out.TOTPSecret, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Station{}, ErrUnknownStation
	}
	if err != nil {
		return Station{}, err
	}
	return out, nil
}

func (s *Store) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, label, totp_secret, created_at FROM kiosk_stations ORDER BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Station
	for rows.Next() {
		var station Station
		if err := rows.Scan(&station.ID, &station.Label, &station.TOTPSecret, &station.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, station)
	}
	return out, rows.Err()
}
