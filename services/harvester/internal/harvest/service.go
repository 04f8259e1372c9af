package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stoik/spf-harvester/internal/models"
	"github.com/stoik/spf-harvester/services/harvester/internal/config"
	"github.com/stoik/spf-harvester/services/harvester/internal/headers"
	"github.com/stoik/spf-harvester/services/harvester/internal/provider"
	"github.com/stoik/spf-harvester/services/harvester/internal/report"
)

// Authenticator obtains a bearer token for the listing request
type Authenticator interface {
	Token(ctx context.Context) (string, error)
}

// Archiver stores the records of one run
type Archiver interface {
	Save(ctx context.Context, runID uuid.UUID, records []models.ParsedRecord, harvestedAt time.Time) (int64, error)
}

// Summary describes a completed run
type Summary struct {
	RunID    uuid.UUID
	Records  int
	Output   string
	Archived int64
}

type Service struct {
	cfg      *config.Config
	auth     Authenticator
	provider provider.Provider
	archiver Archiver
	out      io.Writer
	log      *zap.SugaredLogger
	now      func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithArchiver copies every run's records to a into the archive after the report is written
func WithArchiver(a Archiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithOutput sets where progress lines are printed
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.out = w
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(cfg *config.Config, auth Authenticator, p provider.Provider, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		auth:     auth,
		provider: p,
		out:      io.Discard,
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run authenticates, fetches the first page of the configured folder,
// extracts the authentication headers and writes the report. The first
// failing stage aborts the run; the report file is only touched once
// fetching has succeeded.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New()
	log := s.log.With("run_id", runID, "mailbox", s.cfg.Mailbox, "folder", s.cfg.Folder)

	fmt.Fprintln(s.out, "Fetching emails from Outlook 365...")

	token, err := s.auth.Token(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("token acquired")

	emails, err := s.provider.GetEmails(ctx, token, s.cfg.Mailbox, s.cfg.Folder)
	if err != nil {
		return nil, err
	}
	log.Infow("fetched messages", "count", len(emails))

	records := headers.ParseAll(emails)
	fmt.Fprintf(s.out, "Processing complete! %d emails parsed.\n", len(records))

	if err := report.WriteFile(s.cfg.Output, records); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "CSV file saved: %s\n", s.cfg.Output)
	log.Infow("report written", "path", s.cfg.Output, "records", len(records))

	summary := &Summary{
		RunID:   runID,
		Records: len(records),
		Output:  s.cfg.Output,
	}

	if s.archiver != nil {
		n, err := s.archiver.Save(ctx, runID, records, s.now())
		if err != nil {
			return summary, err
		}
		summary.Archived = n
		log.Infow("run archived", "rows", n)
	}

	return summary, nil
}
