package edits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEditEmptySets(t *testing.T) {
	score := ScoreEdit(nil, nil)
	assert.Equal(t, 0, score.Precision)
	assert.Equal(t, 0, score.Accuracy)
	assert.Empty(t, score.UnintendedChanges)
	assert.Empty(t, score.MissedTargets)
}

func TestScoreEditPerfectMatch(t *testing.T) {
	cells := []string{"A1", "B2", "C3"}
	score := ScoreEdit(cells, cells)
	assert.Equal(t, 100, score.Precision)
	assert.Equal(t, 100, score.Accuracy)
	assert.Empty(t, score.UnintendedChanges)
	assert.Empty(t, score.MissedTargets)
}

func TestScoreEditPartialOverlap(t *testing.T) {
	score := ScoreEdit([]string{"A1", "A2", "B1", "B2"}, []string{"A1", "A2", "C3"})

	// 2 of 3 actual changes were intended; 2 of 4 intended cells changed.
	assert.Equal(t, 67, score.Precision)
	assert.Equal(t, 50, score.Accuracy)
	assert.Equal(t, []string{"C3"}, score.UnintendedChanges)
	assert.Equal(t, []string{"B1", "B2"}, score.MissedTargets)
}

func TestScoreEditZeroDenominators(t *testing.T) {
	// Nothing changed: precision has a zero denominator.
	missedAll := ScoreEdit([]string{"A1"}, nil)
	assert.Equal(t, 0, missedAll.Precision)
	assert.Equal(t, 0, missedAll.Accuracy)
	assert.Equal(t, []string{"A1"}, missedAll.MissedTargets)

	// Nothing intended: accuracy has a zero denominator.
	allNoise := ScoreEdit(nil, []string{"D4"})
	assert.Equal(t, 0, allNoise.Precision)
	assert.Equal(t, 0, allNoise.Accuracy)
	assert.Equal(t, []string{"D4"}, allNoise.UnintendedChanges)
}

func TestScoreEditDuplicatesCollapse(t *testing.T) {
	score := ScoreEdit([]string{"A1", "A1"}, []string{"A1", "A1"})
	assert.Equal(t, 100, score.Precision)
	assert.Equal(t, 100, score.Accuracy)
}
