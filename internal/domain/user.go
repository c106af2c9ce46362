package domain

import (
	"fmt"
	"strings"
	"time"
)

type TheoreticalTrainingSession struct {
	Day         Day         `json:"day"`
	SessionType SessionType `json:"session_type"`
}

type Preferences struct {
	RaceDistance      *RaceDistance                `json:"race_distance,omitempty"`
	RaceDate          *time.Time                   `json:"race_date,omitempty"`
	IdealTrainingWeek []TheoreticalTrainingSession `json:"ideal_training_week,omitempty"`
}

// User is an athlete receiving generated training weeks.
type User struct {
	AthleteID   int64
	Email       string
	Preferences Preferences
	AccessToken string
	DeviceToken string
	CreatedAt   time.Time
}

// String renders the preferences for coaching prompts.
func (p Preferences) String() string {
	var b strings.Builder
	race := "none"
	if p.RaceDistance != nil {
		race = string(*p.RaceDistance)
	}
	fmt.Fprintf(&b, "race distance: %s", race)
	if p.RaceDate != nil {
		fmt.Fprintf(&b, "\nrace date: %s", p.RaceDate.Format(DateLayout))
	}
	if len(p.IdealTrainingWeek) > 0 {
		b.WriteString("\nideal training week:")
		for _, s := range p.IdealTrainingWeek {
			fmt.Fprintf(&b, "\n- %s: %s", s.Day, s.SessionType)
		}
	}
	return b.String()
}
