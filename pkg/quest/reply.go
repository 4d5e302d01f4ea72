package quest

// Outcome labels how a quest ended.
type Outcome string

const (
	OutcomeVictory     Outcome = "victory"
	OutcomeDefeat      Outcome = "defeat"
	OutcomeInterrupted Outcome = "interrupted"
)

// Reply is one outbound narrative message. Choices carry the discrete
// options the messaging surface may render as buttons or a numbered
// menu. Notices are short out-of-band lines (riddle verdicts, score
// reports, reminders) delivered after the main text. When Ended is set
// the session record no longer exists.
type Reply struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices,omitempty"`
	Notices []string `json:"notices,omitempty"`
	Ended   bool     `json:"ended,omitempty"`
	Outcome Outcome  `json:"outcome,omitempty"`
	Points  int      `json:"points,omitempty"`
	Player  *Player  `json:"player,omitempty"`
}

// Status is the read-only quest summary served by get_status.
type Status struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Goal         string   `json:"quest_goal"`
	ProgressPct  float64  `json:"progress_percent"`
	Stage        int      `json:"stage"`
	TotalStages  int      `json:"total_stages"`
	HP           int      `json:"hp"`
	Karma        int      `json:"karma"`
	State        State    `json:"state"`
	InCombat     bool     `json:"in_combat"`
	ZenPoints    int      `json:"zen_points"`
	Level        string   `json:"level"`
	RecentScenes []string `json:"recent_scenes,omitempty"`
}
