package templates

// StartData renders the start page with the first clue.
type StartData struct {
	PageData
	FirstClue string
}

// ClueData renders a revealed clue; the Final fields are only set when
// the scanned tag completed the hunt.
type ClueData struct {
	PageData
	Clue           string
	Final          bool
	CompletionTime string
	Rank           int
}

// ErrorData renders a recoverable game error.
type ErrorData struct {
	PageData
	Message string
}

// LeaderboardRow is one row of the public leaderboard.
type LeaderboardRow struct {
	Position int
	Name     string
	Time     string
}

// LeaderboardData renders the leaderboard page.
type LeaderboardData struct {
	PageData
	Entries []LeaderboardRow
}

// AdminPlayerRow is one roster row on the admin dashboard.
type AdminPlayerRow struct {
	ID         string
	Name       string
	CurrentTag string
	Started    bool
	Finished   bool
	Time       string
}

// AdminDashboardData renders the admin dashboard.
type AdminDashboardData struct {
	PageData
	Players []AdminPlayerRow
	Tags    []string
}
