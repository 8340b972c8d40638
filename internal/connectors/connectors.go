package connectors

import (
	"time"

	"briefing/internal"
)

type MailConnector interface {
	FetchSince(since time.Time, max int) ([]internal.FetchedMailMessage, error)
}
