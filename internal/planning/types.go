package planning

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownCompetitor = errors.New("unknown competitor")
)

// Feature priorities and difficulties are closed vocabularies; anything else
// is a validation error at the HTTP boundary.
var (
	Priorities   = []string{"Low", "Medium", "High"}
	Difficulties = []string{"Easy", "Medium", "Hard"}
)

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

type Feature struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority"`
	Difficulty   string    `json:"difficulty"`
	IncludeInMvp bool      `json:"include_in_mvp"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

type ValidationMethod struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Method    string    `json:"method"`
	Selected  bool      `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}

type Competitor struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CompetitiveFeature tracks which player has a given capability. Flags are
// keyed by competitor id, never by list position, so removing a competitor
// cannot silently shift every other column.
type CompetitiveFeature struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	Name      string          `json:"name"`
	YourMvp   bool            `json:"your_mvp"`
	Flags     map[string]bool `json:"competitor_flags"`
	CreatedAt time.Time       `json:"created_at"`
}

// Toggle flips one column of the row: an empty competitorID targets the
// "your MVP" column, anything else flips exactly that competitor's flag.
func (cf *CompetitiveFeature) Toggle(competitorID string) {
	if competitorID == "" {
		cf.YourMvp = !cf.YourMvp
		return
	}
	if cf.Flags == nil {
		cf.Flags = make(map[string]bool)
	}
	cf.Flags[competitorID] = !cf.Flags[competitorID]
}

type Milestone struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DurationWeeks int       `json:"duration_weeks"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// neighborIndex returns the index to swap with, or ok=false when the move is
// a no-op (first item up, last item down).
func neighborIndex(length, i int, dir MoveDirection) (int, bool) {
	switch dir {
	case MoveUp:
		if i <= 0 {
			return 0, false
		}
		return i - 1, true
	case MoveDown:
		if i >= length-1 {
			return 0, false
		}
		return i + 1, true
	}
	return 0, false
}

type Kpi struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Target      string    `json:"target"`
	Timeframe   string    `json:"timeframe"`
	CreatedAt   time.Time `json:"created_at"`
}
