package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseTableCoversFullRange(t *testing.T) {
	table := PhaseTable()
	require.Len(t, table, MaxPhase+1)

	for i, info := range table {
		assert.Equal(t, i, info.Phase)
	}

	assert.Equal(t, PhaseKindWait, table[0].Kind)
	assert.Equal(t, 0, table[0].Session)
	assert.Equal(t, PhaseKindFinalSelect, table[9].Kind)
	assert.Equal(t, PhaseKindFinalResult, table[10].Kind)

	// Odd phases open a selection window, even phases (past 0) open results.
	for phase := 1; phase <= 8; phase++ {
		info := table[phase]
		expectedSession := (phase + 1) / 2
		assert.Equal(t, expectedSession, info.Session, "phase %d", phase)
		if phase%2 == 1 {
			assert.Equal(t, PhaseKindSelect, info.Kind, "phase %d", phase)
		} else {
			assert.Equal(t, PhaseKindResult, info.Kind, "phase %d", phase)
		}
	}
}

func TestPhaseInfoForOutOfRange(t *testing.T) {
	_, ok := PhaseInfoFor(-1)
	assert.False(t, ok)
	_, ok = PhaseInfoFor(MaxPhase + 1)
	assert.False(t, ok)

	info, ok := PhaseInfoFor(5)
	require.True(t, ok)
	assert.Equal(t, 3, info.Session)
}

func TestClampPhase(t *testing.T) {
	assert.Equal(t, MinPhase, ClampPhase(-3))
	assert.Equal(t, MaxPhase, ClampPhase(42))
	assert.Equal(t, 7, ClampPhase(7))
}

func TestGenderOpposite(t *testing.T) {
	assert.Equal(t, GenderFemale, GenderMale.Opposite())
	assert.Equal(t, GenderMale, GenderFemale.Opposite())
	assert.False(t, Gender("X").Valid())
}
