package listener

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"briefing/internal/config"
	"briefing/internal/connectors"
	gmailconnector "briefing/internal/connectors/gmail"
	imapconnector "briefing/internal/connectors/imap"
	"briefing/internal/pipeline"
	"briefing/internal/storage"
)

const lastCheckKey = "emailSync.lastCheck"

// Service periodically scans the configured mailbox and folds new school
// emails into the day's briefing.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			slog.Error("email sync cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailSyncInterval) * time.Second):
		}
	}
}

// RunOnce performs a single fetch-and-process cycle.
func (s *Service) RunOnce() error {
	return s.runCycle()
}

func (s *Service) runCycle() error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	since := s.lastCheck()
	cycleStart := time.Now()

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(since, s.cfg.MailFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	result, err := processor.ProcessPending(s.cfg.MailProcessBatch, provider)
	if err != nil {
		return err
	}

	// Advance the cursor only after a full successful cycle so a failed run
	// gets retried from the same point.
	if err := s.db.SetMetadata(lastCheckKey, cycleStart.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	slog.Info("email sync cycle done",
		"provider", provider,
		"since", since.UTC().Format(time.RFC3339),
		"fetched", fetchResult.Fetched,
		"stored", fetchResult.Stored,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"newItems", result.NewItems)
	return nil
}

// lastCheck returns the previous cycle's start time, or a short lookback
// window when the service has never run.
func (s *Service) lastCheck() time.Time {
	fallback := time.Now().Add(-time.Duration(s.cfg.MailLookbackSec) * time.Second)

	value, err := s.db.GetMetadata(lastCheckKey)
	if err != nil || value == nil {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
