package domain

type TrainingSession struct {
	Day         Day         `json:"day"`
	SessionType SessionType `json:"session_type"`
	Distance    float64     `json:"distance"`
	Notes       string      `json:"notes"`
}

// TrainingWeek is the unordered set of remaining sessions for a week.
type TrainingWeek struct {
	Sessions []TrainingSession `json:"sessions"`
}

// TotalMileage sums the distance of every session.
func (w TrainingWeek) TotalMileage() float64 {
	var total float64
	for _, s := range w.Sessions {
		total += s.Distance
	}
	return total
}

type PseudoTrainingDay struct {
	Day         Day         `json:"day"`
	SessionType SessionType `json:"session_type"`
	Distance    float64     `json:"distance"`
}

// PseudoTrainingWeek is the rough day-by-day draft elaborated into a
// TrainingWeek.
type PseudoTrainingWeek struct {
	Days []PseudoTrainingDay `json:"days"`
}

// EnrichedActivity pairs a completed day with coach commentary.
type EnrichedActivity struct {
	Activity     DailyActivity `json:"activity"`
	CoachesNotes string        `json:"coaches_notes"`
}

// FullTrainingWeek is the unit persisted and returned to callers.
type FullTrainingWeek struct {
	PastTrainingWeek   []EnrichedActivity `json:"past_training_week"`
	FutureTrainingWeek TrainingWeek       `json:"future_training_week"`
}
