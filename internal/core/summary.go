package core

const (
	Daily   Granularity = "day"
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
)

// Granularity names an aggregation bucket size.
type Granularity string

// DailyScore is the per-partner sum for one calendar day.
type DailyScore struct {
	Date          string `json:"date"`
	Partner1Score int    `json:"partner1Score"`
	Partner2Score int    `json:"partner2Score"`
}

// WeeklyScore is keyed by the Monday that starts the week.
type WeeklyScore struct {
	WeekStarting  string `json:"weekStarting"`
	Partner1Score int    `json:"partner1Score"`
	Partner2Score int    `json:"partner2Score"`
}

// MonthlyScore is keyed by YYYY-MM.
type MonthlyScore struct {
	Month         string `json:"month"`
	Partner1Score int    `json:"partner1Score"`
	Partner2Score int    `json:"partner2Score"`
}

// PeriodScore is a generic bucket of any granularity.
type PeriodScore struct {
	Key           string `json:"key"`
	Start         Date   `json:"start"`
	Partner1Score int    `json:"partner1Score"`
	Partner2Score int    `json:"partner2Score"`
}

// TotalScores sums every log. Difference is unsigned; compare Partner1 and
// Partner2 (or use Leader) to know who is ahead.
type TotalScores struct {
	Partner1   int `json:"partner1"`
	Partner2   int `json:"partner2"`
	Difference int `json:"difference"`
}

// Leader returns the partner with the higher total, or "" on a tie.
func (t TotalScores) Leader() Partner {
	switch {
	case t.Partner1 > t.Partner2:
		return Partner1
	case t.Partner2 > t.Partner1:
		return Partner2
	default:
		return ""
	}
}

// Overview is everything the dashboard shows at once.
type Overview struct {
	Today   DailyScore     `json:"today"`
	Weekly  []WeeklyScore  `json:"weekly"`
	Monthly []MonthlyScore `json:"monthly"`
	Totals  TotalScores    `json:"totals"`
	Leader  Partner        `json:"leader,omitempty"`
	Chores  []Chore        `json:"chores"`
}
