package services

// Action identifies an external event evaluated against badge conditions
type Action string

const (
	ActionMiningStarted    Action = "MINING_STARTED"
	ActionMiningCompleted  Action = "MINING_COMPLETED"
	ActionReferralSuccess  Action = "REFERRAL_SUCCESS"
	ActionStreakMilestone  Action = "STREAK_MILESTONE"
	ActionProfileCompleted Action = "PROFILE_COMPLETED"
)

// TaskRule maps an action to a badge task completion. The predicate decides
// from the event metadata whether the task is satisfied.
type TaskRule struct {
	BadgeID   string
	TaskID    string
	Predicate func(metadata map[string]interface{}) bool
}

func always(map[string]interface{}) bool { return true }

// metaAtLeast matches when the named metadata counter is at least min
func metaAtLeast(key string, min int) func(map[string]interface{}) bool {
	return func(metadata map[string]interface{}) bool {
		v, ok := metadata[key]
		if !ok {
			return false
		}
		switch n := v.(type) {
		case int:
			return n >= min
		case int32:
			return int(n) >= min
		case int64:
			return int(n) >= min
		case float64:
			return int(n) >= min
		}
		return false
	}
}

// badgeRules is the single source of truth for which event completes which
// badge task
var badgeRules = map[Action][]TaskRule{
	ActionMiningStarted: {
		{BadgeID: "pioneer", TaskID: "first-mining-start", Predicate: always},
	},
	ActionMiningCompleted: {
		{BadgeID: "pioneer", TaskID: "first-mining-complete", Predicate: always},
		{BadgeID: "dedicated-miner", TaskID: "complete-1-session", Predicate: metaAtLeast("totalSessions", 1)},
		{BadgeID: "dedicated-miner", TaskID: "complete-10-sessions", Predicate: metaAtLeast("totalSessions", 10)},
		{BadgeID: "dedicated-miner", TaskID: "complete-50-sessions", Predicate: metaAtLeast("totalSessions", 50)},
	},
	ActionStreakMilestone: {
		{BadgeID: "streak-starter", TaskID: "streak-3", Predicate: metaAtLeast("streak", 3)},
		{BadgeID: "streak-starter", TaskID: "streak-7", Predicate: metaAtLeast("streak", 7)},
		{BadgeID: "streak-legend", TaskID: "streak-15", Predicate: metaAtLeast("streak", 15)},
		{BadgeID: "streak-legend", TaskID: "streak-30", Predicate: metaAtLeast("streak", 30)},
	},
	ActionReferralSuccess: {
		{BadgeID: "recruiter", TaskID: "refer-1", Predicate: metaAtLeast("referrals", 1)},
		{BadgeID: "recruiter", TaskID: "refer-5", Predicate: metaAtLeast("referrals", 5)},
	},
	ActionProfileCompleted: {
		{BadgeID: "pioneer", TaskID: "complete-profile", Predicate: always},
	},
}

// RulesForAction returns the task rules evaluated for an action
func RulesForAction(action Action) []TaskRule {
	return badgeRules[action]
}
