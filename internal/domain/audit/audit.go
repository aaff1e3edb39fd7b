package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Service records append-only events for admin-performed account actions.
// Recording is an explicit configuration decision; when disabled the service
// is a no-op.
type Service struct {
	DB      *pgxpool.Pool
	Enabled bool
}

func New(db *pgxpool.Pool, enabled bool) *Service {
	return &Service{DB: db, Enabled: enabled}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, payload any) error {
	if s == nil || !s.Enabled {
		return nil
	}

	var payloadJSON []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		payloadJSON = encoded
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, payload_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, actorID, action, entityType, entityID, payloadJSON, requestID, ip)
	return err
}

func (s *Service) List(ctx context.Context, action string, limit, offset int) ([]Event, error) {
	query := `
    SELECT id, actor_user_id, action, entity_type, COALESCE(entity_id, ''), COALESCE(request_id, ''), COALESCE(ip, ''), created_at, payload_json
    FROM audit_events
  `
	args := []any{}
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(
			&event.ID, &event.ActorID, &event.Action, &event.EntityType, &event.EntityID,
			&event.RequestID, &event.IP, &event.CreatedAt, &event.Payload,
		); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
