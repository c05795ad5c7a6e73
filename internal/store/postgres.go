package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"eventtracker/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the persistent EventStore implementation, backed by a
// pgx connection pool. It exists so deployments that need events to survive
// restarts can swap it in via configuration; handlers never know which
// implementation they talk to.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Insert assigns a fresh random identifier and writes the draft as one row.
// Identifier generation stays on the application side so both store
// implementations share the same id policy.
func (s *PostgresStore) Insert(ctx context.Context, draft domain.NewEvent) (*domain.Event, error) {
	event := domain.Event{
		ID:        uuid.New(),
		EventType: draft.EventType,
		Timestamp: draft.Timestamp,
		Payload:   draft.Payload,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, event_type, timestamp, payload)
		VALUES ($1, $2, $3, $4)
	`, event.ID, event.EventType, event.Timestamp, event.Payload)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}

	return &event, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := s.pool.QueryRow(ctx, `
		SELECT id, event_type, timestamp, payload
		FROM events WHERE id = $1
	`, id).Scan(&event.ID, &event.EventType, &event.Timestamp, &event.Payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying event: %w", err)
	}
	event.Timestamp = event.Timestamp.UTC()
	return &event, nil
}

func (s *PostgresStore) List(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	query := `SELECT id, event_type, timestamp, payload FROM events`
	args := []interface{}{}
	conds := []string{}

	if q.EventType != nil {
		args = append(args, *q.EventType)
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if q.Start != nil {
		args = append(args, *q.Start)
		conds = append(conds, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if q.End != nil {
		args = append(args, *q.End)
		conds = append(conds, fmt.Sprintf("timestamp <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.Timestamp, &e.Payload); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}

	return events, nil
}

// RunMigrations executes all .up.sql files in migrationsDir in lexical
// order, tracking applied versions in a schema_migrations table.
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationsDir string) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Strings(migrations)

	for _, path := range migrations {
		version := filepath.Base(path)

		var exists bool
		err := s.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("executing migration %s: %w", version, err)
		}

		if _, err := s.pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
	}

	return nil
}
