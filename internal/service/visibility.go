package service

import "github.com/theshortlist/shortlist-api/internal/models"

// ResultsVisible reports whether a session's selection results may be shown at
// the current phase. Session n opens at phase 2n. This gates presentation
// only; the ledger itself accepts and returns data regardless of phase.
func ResultsVisible(sessionNumber, currentPhase int) bool {
	return currentPhase >= 2*sessionNumber
}

// FinalResultsVisible reports whether match results may be shown.
func FinalResultsVisible(currentPhase int) bool {
	return currentPhase >= models.MaxPhase
}
