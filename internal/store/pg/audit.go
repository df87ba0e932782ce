package pg

import (
	"context"
	"database/sql"
	"time"

	"taskwire.org/internal/audit"
	"taskwire.org/internal/ids"
)

// Audit returns the audit.Store view of the pool.
func (s *Store) Audit() audit.Store { return &auditStore{db: s.db} }

type auditStore struct{ db *sql.DB }

var _ audit.Store = (*auditStore)(nil)

func (s *auditStore) Append(ctx context.Context, entry *audit.Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into audit_log (id, actor_user_id, message, method, occurred_at)
		values ($1, $2, $3, $4, $5)
	`, entry.ID, entry.ActorUserID, entry.Message, entry.Method, entry.OccurredAt)
	return err
}
