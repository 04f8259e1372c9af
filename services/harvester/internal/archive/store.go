package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stoik/spf-harvester/internal/models"
)

// TableName is the archive table written by Save
const TableName = "harvested_messages"

// Columns are the archive table's copy columns, in row order
var Columns = []string{
	"run_id",
	"position",
	"subject",
	"sender",
	"received_from",
	"spf_result",
	"dmarc_result",
	"received_date",
	"message_id",
	"harvested_at",
}

// Schema creates the archive table and its indexes
const Schema = `
	CREATE TABLE IF NOT EXISTS harvested_messages (
	    run_id UUID NOT NULL,
	    position INT NOT NULL,
	    subject TEXT NOT NULL,
	    sender TEXT NOT NULL,
	    received_from TEXT,
	    spf_result TEXT,
	    dmarc_result TEXT,
	    received_date TEXT NOT NULL,
	    message_id TEXT NOT NULL,
	    harvested_at TIMESTAMP WITH TIME ZONE NOT NULL,
	    PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_harvested_messages_harvested_at ON harvested_messages(harvested_at);
	CREATE INDEX IF NOT EXISTS idx_harvested_messages_message_id ON harvested_messages(message_id);
`

// Store writes harvest runs to Postgres
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to connString and pings the database
func Open(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("database.url not configured")
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the archive table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Save copies records into the archive table under runID
func (s *Store) Save(ctx context.Context, runID uuid.UUID, records []models.ParsedRecord, harvestedAt time.Time) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{TableName},
		Columns,
		pgx.CopyFromRows(Rows(runID, records, harvestedAt)),
	)
	if err != nil {
		return n, fmt.Errorf("failed to archive run %s: %w", runID, err)
	}
	return n, nil
}

// Rows converts records into copy rows; absent optional fields become NULL
func Rows(runID uuid.UUID, records []models.ParsedRecord, harvestedAt time.Time) [][]any {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []any{
			runID,
			int32(i),
			rec.Subject,
			rec.Sender,
			rec.ReceivedFrom,
			rec.SPFResult,
			rec.DMARCResult,
			rec.Date,
			rec.MessageID,
			harvestedAt,
		})
	}
	return rows
}
