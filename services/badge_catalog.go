package services

// CatalogTask is one step in a catalog badge definition
type CatalogTask struct {
	ID          string
	Description string
}

// CatalogBadge is a fixed catalog entry instantiated identically for every
// user at account creation
type CatalogBadge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	Tasks       []CatalogTask
}

// BadgeCatalog returns the fixed badge catalog. Task IDs are referenced by the
// rule table in badge_rules.go; changing an ID here without updating the rules
// orphans the task.
func BadgeCatalog() []CatalogBadge {
	return []CatalogBadge{
		{
			ID:          "pioneer",
			Name:        "Pioneer",
			Description: "Get your account off the ground",
			Icon:        "🚀",
			Category:    "achievement",
			Tasks: []CatalogTask{
				{ID: "complete-profile", Description: "Fill in your display name and bio"},
				{ID: "first-mining-start", Description: "Start your first mining session"},
				{ID: "first-mining-complete", Description: "Complete your first mining session"},
			},
		},
		{
			ID:          "dedicated-miner",
			Name:        "Dedicated Miner",
			Description: "Keep the sessions coming",
			Icon:        "⛏️",
			Category:    "mining",
			Tasks: []CatalogTask{
				{ID: "complete-1-session", Description: "Complete a mining session"},
				{ID: "complete-10-sessions", Description: "Complete 10 mining sessions"},
				{ID: "complete-50-sessions", Description: "Complete 50 mining sessions"},
			},
		},
		{
			ID:          "streak-starter",
			Name:        "Streak Starter",
			Description: "Show up day after day",
			Icon:        "🔥",
			Category:    "streak",
			Tasks: []CatalogTask{
				{ID: "streak-3", Description: "Reach a 3-day streak"},
				{ID: "streak-7", Description: "Reach a 7-day streak"},
			},
		},
		{
			ID:          "streak-legend",
			Name:        "Streak Legend",
			Description: "Make consistency a habit",
			Icon:        "🏆",
			Category:    "streak",
			Tasks: []CatalogTask{
				{ID: "streak-15", Description: "Reach a 15-day streak"},
				{ID: "streak-30", Description: "Reach a 30-day streak"},
			},
		},
		{
			ID:          "recruiter",
			Name:        "Recruiter",
			Description: "Bring your friends along",
			Icon:        "🤝",
			Category:    "social",
			Tasks: []CatalogTask{
				{ID: "refer-1", Description: "Refer a friend"},
				{ID: "refer-5", Description: "Refer 5 friends"},
			},
		},
	}
}
