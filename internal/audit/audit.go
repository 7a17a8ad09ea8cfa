package audit

import (
	"database/sql"
	"time"
)

// Service appends to the audit trail. Webhooks that hit a settled record are
// recorded here instead of mutating the record.
type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Log(ref, action, metadata string) {

	s.db.Exec(`
	INSERT INTO audit_logs(ref, action, metadata, created_at)
	VALUES (?, ?, ?, ?)
	`, ref, action, metadata, time.Now().Unix())
}
