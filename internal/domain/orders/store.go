package orders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	Create(ctx context.Context, userID, fileName, url string) (LetterOrder, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]LetterOrder, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, userID, fileName, url string) (LetterOrder, error) {
	var out LetterOrder
	err := s.DB.QueryRow(ctx, `
    INSERT INTO letter_orders (user_id, file_name, url)
    VALUES ($1, $2, $3)
    RETURNING id, user_id, file_name, url, created_at
  `, userID, fileName, url).Scan(&out.ID, &out.UserID, &out.FileName, &out.URL, &out.CreatedAt)
	if err != nil {
		return LetterOrder{}, err
	}
	return out, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit, offset int) ([]LetterOrder, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, file_name, url, created_at
    FROM letter_orders
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LetterOrder
	for rows.Next() {
		var order LetterOrder
		if err := rows.Scan(&order.ID, &order.UserID, &order.FileName, &order.URL, &order.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}
