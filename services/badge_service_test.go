package services

import (
	"testing"
	"time"

	"minehub/models"
)

func testBadge() models.UserBadge {
	return models.UserBadge{
		BadgeID: "streak-starter",
		Name:    "Streak Starter",
		Tasks: []models.BadgeTask{
			{ID: "streak-3"},
			{ID: "streak-7"},
		},
	}
}

func TestProgress(t *testing.T) {
	badge := testBadge()

	if p := Progress(badge.Tasks); p != 0 {
		t.Errorf("Expected 0%% progress on a fresh badge, got %f", p)
	}

	badge.Tasks[0].Completed = true
	if p := Progress(badge.Tasks); p != 50 {
		t.Errorf("Expected 50%% progress with one of two tasks done, got %f", p)
	}

	badge.Tasks[1].Completed = true
	if p := Progress(badge.Tasks); p != 100 {
		t.Errorf("Expected 100%% progress with all tasks done, got %f", p)
	}

	if p := Progress(nil); p != 0 {
		t.Errorf("Expected 0%% progress with no tasks, got %f", p)
	}
}

func TestApplyTaskEarnsOnLastTask(t *testing.T) {
	badge := testBadge()
	now := time.Now()

	changed, earnedNow, found := ApplyTask(&badge, "streak-3", true, now)
	if !found || !changed {
		t.Error("Expected first task application to change the badge")
	}
	if earnedNow {
		t.Error("Badge should not be earned with one task remaining")
	}
	if badge.IsEarned {
		t.Error("IsEarned should be false with one task remaining")
	}

	changed, earnedNow, found = ApplyTask(&badge, "streak-7", true, now)
	if !found || !changed {
		t.Error("Expected second task application to change the badge")
	}
	if !earnedNow {
		t.Error("Completing the last task should earn the badge")
	}
	if !badge.IsEarned || badge.EarnedAt == nil {
		t.Error("Earned badge should carry IsEarned and EarnedAt")
	}
}

func TestApplyTaskIdempotent(t *testing.T) {
	badge := testBadge()
	now := time.Now()

	ApplyTask(&badge, "streak-3", true, now)
	changed, earnedNow, found := ApplyTask(&badge, "streak-3", true, now)
	if !found {
		t.Error("Expected task to be found on re-apply")
	}
	if changed || earnedNow {
		t.Error("Re-applying a completed task should be a no-op")
	}
}

func TestApplyTaskNeverUnearns(t *testing.T) {
	badge := testBadge()
	now := time.Now()

	ApplyTask(&badge, "streak-3", true, now)
	ApplyTask(&badge, "streak-7", true, now)

	changed, earnedNow, found := ApplyTask(&badge, "streak-3", false, now)
	if !found {
		t.Error("Expected task to be found on an earned badge")
	}
	if changed || earnedNow {
		t.Error("An earned badge should never change")
	}
	if !badge.IsEarned {
		t.Error("An earned badge should stay earned")
	}
	if !badge.Tasks[0].Completed {
		t.Error("Tasks on an earned badge should stay completed")
	}
}

func TestApplyTaskUnknownTask(t *testing.T) {
	badge := testBadge()

	changed, earnedNow, found := ApplyTask(&badge, "no-such-task", true, time.Now())
	if found {
		t.Error("Expected unknown task to report not found")
	}
	if changed || earnedNow {
		t.Error("Unknown task should not mutate the badge")
	}
}

// Every rule must point at a badge and task that exist in the catalog,
// otherwise the rule silently never fires
func TestRuleTableMatchesCatalog(t *testing.T) {
	tasksByBadge := make(map[string]map[string]bool)
	for _, cb := range BadgeCatalog() {
		tasks := make(map[string]bool, len(cb.Tasks))
		for _, task := range cb.Tasks {
			tasks[task.ID] = true
		}
		tasksByBadge[cb.ID] = tasks
	}

	for action, rules := range badgeRules {
		for _, rule := range rules {
			tasks, ok := tasksByBadge[rule.BadgeID]
			if !ok {
				t.Errorf("Rule for %s references unknown badge %s", action, rule.BadgeID)
				continue
			}
			if !tasks[rule.TaskID] {
				t.Errorf("Rule for %s references unknown task %s/%s", action, rule.BadgeID, rule.TaskID)
			}
			if rule.Predicate == nil {
				t.Errorf("Rule for %s/%s has no predicate", rule.BadgeID, rule.TaskID)
			}
		}
	}
}

func TestMetaAtLeast(t *testing.T) {
	pred := metaAtLeast("totalSessions", 10)

	if pred(nil) {
		t.Error("Predicate should reject missing metadata")
	}
	if pred(map[string]interface{}{"totalSessions": 9}) {
		t.Error("Predicate should reject a count below the threshold")
	}
	if !pred(map[string]interface{}{"totalSessions": 10}) {
		t.Error("Predicate should accept a count at the threshold")
	}
	if !pred(map[string]interface{}{"totalSessions": int64(25)}) {
		t.Error("Predicate should accept int64 counts")
	}
	if !pred(map[string]interface{}{"totalSessions": float64(12)}) {
		t.Error("Predicate should accept float64 counts from decoded JSON")
	}
}
