package edits

import "math"

// EditScore is the feedback loop for a completed edit: how much of what
// changed was intended, and how much of the intent actually changed.
type EditScore struct {
	Precision         int      `json:"precision"`
	Accuracy          int      `json:"accuracy"`
	UnintendedChanges []string `json:"unintended_changes"`
	MissedTargets     []string `json:"missed_targets"`
}

// ScoreEdit compares the intended target cells with the cells an edit
// actually touched. Percentages are rounded to the nearest integer and a
// zero denominator reports 0 rather than NaN.
func ScoreEdit(intended, actual []string) EditScore {
	intendedSet := toSet(intended)
	actualSet := toSet(actual)

	correct := 0
	unintended := map[string]bool{}
	missed := map[string]bool{}

	for id := range actualSet {
		if intendedSet[id] {
			correct++
		} else {
			unintended[id] = true
		}
	}
	for id := range intendedSet {
		if !actualSet[id] {
			missed[id] = true
		}
	}

	return EditScore{
		Precision:         percent(correct, len(actualSet)),
		Accuracy:          percent(correct, len(intendedSet)),
		UnintendedChanges: sortedIDs(unintended),
		MissedTargets:     sortedIDs(missed),
	}
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
