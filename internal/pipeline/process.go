package pipeline

import (
	"log/slog"
	"os"
	"time"

	"briefing/internal"
	"briefing/internal/config"
	"briefing/internal/dedupe"
	"briefing/internal/extractor"
	"briefing/internal/storage"
)

type ProcessingService struct {
	db         *storage.DB
	cfg        config.Config
	parser     *extractor.Parser
	reconciler *dedupe.Reconciler
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{
		db:         db,
		cfg:        cfg,
		parser:     extractor.NewParser(cfg.SISenderEmail, cfg.SISenderCourse),
		reconciler: dedupe.NewReconciler(dedupe.NewDeduper()),
	}
}

type ProcessResult struct {
	Processed int
	Skipped   int
	Failed    int
	NewItems  int
	Date      string
}

// ProcessPending parses fetched emails and folds everything they yield into
// today's briefing in one reconcile pass. A parse failure marks that email
// failed and does not stop the batch.
func (s *ProcessingService) ProcessPending(limit int, provider string) (ProcessResult, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return ProcessResult{}, err
	}

	now := time.Now()
	today := s.today(now)
	result := ProcessResult{Date: today}

	submission := &internal.BriefingSubmission{Date: today}
	var parsedRows []internal.EmailRow

	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}

		parsed, err := s.parseEmail(email)
		if err != nil {
			slog.Warn("email parse failed", "provider", email.Provider, "messageId", email.MessageID, "error", err)
			_ = s.db.UpdateEmailStatus(email.ID, "failed")
			result.Failed++
			continue
		}
		if parsed == nil {
			_ = s.db.UpdateEmailStatus(email.ID, "skipped")
			result.Skipped++
			continue
		}

		extractor.Route(submission, parsed, today)
		parsedRows = append(parsedRows, email)
	}

	if submission.Empty() {
		for _, email := range parsedRows {
			if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
				return result, err
			}
		}
		return result, nil
	}

	existing, err := s.db.GetBriefing(today)
	if err != nil {
		return result, err
	}

	reconciled := s.reconciler.Reconcile(today, existing, submission, dedupe.PathEmailSync, now)
	if err := s.db.UpsertBriefing(reconciled.Doc); err != nil {
		return result, err
	}
	result.NewItems = reconciled.TotalNew()

	for _, email := range parsedRows {
		if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
			return result, err
		}
		result.Processed++
	}

	slog.Info("briefing updated from email",
		"date", today,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"newItems", result.NewItems)

	return result, nil
}

func (s *ProcessingService) parseEmail(email internal.EmailRow) (*extractor.ParsedEmail, error) {
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return nil, err
	}
	msg, err := extractor.DecodeMessage(raw)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(msg), nil
}

func (s *ProcessingService) today(now time.Time) string {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
