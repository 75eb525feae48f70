package journal

import (
	"context"
	"database/sql"
	"time"

	"coaching-admin-client/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

type mysqlRecorder struct {
	db *sql.DB
}

// NewMySQL opens the journal database and verifies connectivity. The
// schema is one table:
//
//	CREATE TABLE mutation_journal (
//	    id BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    entity VARCHAR(32) NOT NULL,
//	    action VARCHAR(32) NOT NULL,
//	    target VARCHAR(128) NOT NULL,
//	    outcome VARCHAR(16) NOT NULL,
//	    message TEXT,
//	    duration_ms BIGINT NOT NULL,
//	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
//	)
func NewMySQL(cfg *config.Config) (Recorder, error) {
	db, err := sql.Open("mysql", cfg.JournalDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Journal.MaxConnections)
	db.SetMaxIdleConns(cfg.Journal.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Journal.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &mysqlRecorder{db: db}, nil
}

func (r *mysqlRecorder) Record(ctx context.Context, entry Entry) error {
	query := `INSERT INTO mutation_journal (entity, action, target, outcome, message, duration_ms)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, entry.Entity, entry.Action, entry.Target,
		entry.Outcome, entry.Message, entry.Duration.Milliseconds())
	return err
}

func (r *mysqlRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, entity, action, target, outcome, message, duration_ms, created_at
			  FROM mutation_journal ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var message sql.NullString
		var durationMS int64
		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.Action, &entry.Target,
			&entry.Outcome, &message, &durationMS, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Message = message.String
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
