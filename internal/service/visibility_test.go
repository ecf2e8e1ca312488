package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theshortlist/shortlist-api/internal/models"
)

func TestResultsVisible(t *testing.T) {
	// Session s opens exactly at phase 2*s and stays open afterwards.
	for session := models.MinSession; session <= models.MaxSession; session++ {
		for phase := models.MinPhase; phase <= models.MaxPhase; phase++ {
			expected := phase >= 2*session
			assert.Equal(t, expected, ResultsVisible(session, phase), "session %d phase %d", session, phase)
		}
	}
}

func TestResultsVisibleNeverRegresses(t *testing.T) {
	// Once a session's results are open, a higher phase cannot close them.
	for session := models.MinSession; session <= models.MaxSession; session++ {
		open := false
		for phase := models.MinPhase; phase <= models.MaxPhase; phase++ {
			if ResultsVisible(session, phase) {
				open = true
			} else {
				assert.False(t, open, "session %d closed again at phase %d", session, phase)
			}
		}
		assert.True(t, open, "session %d never opened", session)
	}
}

func TestFinalResultsVisible(t *testing.T) {
	for phase := models.MinPhase; phase < models.MaxPhase; phase++ {
		assert.False(t, FinalResultsVisible(phase), "phase %d", phase)
	}
	assert.True(t, FinalResultsVisible(models.MaxPhase))
}
