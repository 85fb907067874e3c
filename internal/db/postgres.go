package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"RentReport/internal/models"
)

// Store writes the email audit trail to Postgres when DATABASE_URL is set.
type Store struct {
	Pool *pgxpool.Pool
}

func New(conn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), conn)
	if err != nil {
		return nil, err
	}

	return &Store{Pool: pool}, nil
}

const emailLogsSchema = `CREATE TABLE IF NOT EXISTS email_logs (
	id          BIGSERIAL PRIMARY KEY,
	run_id      TEXT NOT NULL DEFAULT '',
	recipients  TEXT[] NOT NULL,
	subject     TEXT NOT NULL,
	content     TEXT NOT NULL,
	sent_at     TIMESTAMPTZ NOT NULL,
	status      TEXT NOT NULL,
	template_id TEXT NOT NULL,
	error_msg   TEXT
)`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, emailLogsSchema)
	return err
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) InsertEmailLog(ctx context.Context, entry *models.EmailLogEntry) error {

	var errorMsg *string
	if entry.Error != "" {
		errorMsg = &entry.Error
	}

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO email_logs
		 (run_id, recipients, subject, content, sent_at, status, template_id, error_msg)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.RunID,
		entry.Recipients,
		entry.Subject,
		entry.Content,
		entry.SentAt,
		string(entry.Status),
		entry.TemplateID,
		errorMsg,
	)

	return err
}
