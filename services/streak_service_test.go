package services

import (
	"testing"
	"time"
)

func day(asOf time.Time, offset int) string {
	return asOf.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestComputeStreakConsecutiveDays(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	dates := []string{day(asOf, 0), day(asOf, -1), day(asOf, -2)}
	if streak := ComputeStreak(dates, asOf); streak != 3 {
		t.Errorf("Expected streak of 3, got %d", streak)
	}
}

func TestComputeStreakStopsAtGap(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	// Yesterday is missing, so only today counts
	dates := []string{day(asOf, 0), day(asOf, -2), day(asOf, -3)}
	if streak := ComputeStreak(dates, asOf); streak != 1 {
		t.Errorf("Expected streak of 1 across a gap, got %d", streak)
	}
}

func TestComputeStreakEmpty(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	if streak := ComputeStreak(nil, asOf); streak != 0 {
		t.Errorf("Expected streak of 0 with no completions, got %d", streak)
	}
}

func TestComputeStreakAnchorsOnYesterday(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Today's session hasn't completed yet; the streak survives through
	// yesterday
	dates := []string{day(asOf, -1), day(asOf, -2), day(asOf, -3)}
	if streak := ComputeStreak(dates, asOf); streak != 3 {
		t.Errorf("Expected streak of 3 anchored on yesterday, got %d", streak)
	}
}

func TestComputeStreakBrokenBeforeYesterday(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	// Neither today nor yesterday completed: the streak is over
	dates := []string{day(asOf, -2), day(asOf, -3)}
	if streak := ComputeStreak(dates, asOf); streak != 0 {
		t.Errorf("Expected streak of 0 when yesterday is missing, got %d", streak)
	}
}

func TestComputeStreakIgnoresDuplicates(t *testing.T) {
	asOf := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	dates := []string{day(asOf, 0), day(asOf, 0), day(asOf, -1)}
	if streak := ComputeStreak(dates, asOf); streak != 2 {
		t.Errorf("Expected streak of 2 with duplicate dates, got %d", streak)
	}
}

func TestIsMilestone(t *testing.T) {
	for _, m := range StreakMilestones {
		if !IsMilestone(m) {
			t.Errorf("Expected %d to be a milestone", m)
		}
	}

	for _, n := range []int{0, 1, 2, 4, 8, 14, 29, 99, 101} {
		if IsMilestone(n) {
			t.Errorf("Expected %d not to be a milestone", n)
		}
	}
}
