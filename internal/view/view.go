// Package view turns poller snapshots into renderable patterns. The TUI, the
// streaming board, and one-shot output all show the same states with the
// same wording.
package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/poller"
)

// User-facing texts.
const (
	LoadingFinalText = "Loading final results..."
	LoadingLiveText  = "Loading leaderboard..."
	PendingText      = "Final scores are being calculated. Checking again every %s."
	FinalTitle       = "Final Results"
	LiveTitle        = "Leaderboard"

	// CheckServerHint follows errors that retrying will not fix.
	CheckServerHint = "(check the API URL and server)"
)

// PendingMessage is the readiness message for the given poll interval.
func PendingMessage(interval time.Duration) string {
	return fmt.Sprintf(PendingText, interval)
}

// Loading reports whether the snapshot has nothing to show yet.
func Loading(s poller.Snapshot) bool {
	return s.Phase == poller.Loading
}

// Final returns the patterns for the final results screen: an error banner
// when the last fetch failed, then the readiness message while pending, or
// the podium and full table once ready. A Loading snapshot yields only the
// loading notice; the TUI replaces it with a spinner. interval is the
// readiness poll interval named in the pending message.
func Final(s poller.Snapshot, interval time.Duration) []pattern.Pattern {
	var out []pattern.Pattern
	if s.Err != nil {
		out = append(out, errorBanner(s.Err))
	}
	switch s.Phase {
	case poller.Loading:
		out = append(out, &pattern.Notice{Level: pattern.NoticeInfo, Text: LoadingFinalText})
	case poller.Pending:
		out = append(out, &pattern.Notice{
			Level: pattern.NoticeInfo,
			Text:  PendingMessage(interval),
		})
	case poller.Ready:
		out = append(out,
			pattern.NewPodium("", s.Top3()),
			pattern.NewResultsTable(FinalTitle, s.Entries),
		)
	}
	return out
}

// Live returns the patterns for the general leaderboard.
func Live(s poller.Snapshot) []pattern.Pattern {
	var out []pattern.Pattern
	if s.Err != nil {
		out = append(out, errorBanner(s.Err))
	}
	if s.Phase == poller.Loading {
		return append(out, &pattern.Notice{Level: pattern.NoticeInfo, Text: LoadingLiveText})
	}
	return append(out, pattern.NewResultsTable(LiveTitle, s.Entries))
}

func errorBanner(err error) *pattern.Notice {
	text := "Error: " + err.Error()
	var fe *api.FetchError
	if errors.As(err, &fe) && !fe.Retryable() {
		text += " " + CheckServerHint
	}
	return &pattern.Notice{Level: pattern.NoticeError, Text: text}
}
