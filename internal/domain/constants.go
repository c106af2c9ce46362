package domain

const (
	MetersPerMile = 1609.34
	FeetPerMeter  = 3.28084

	// DefaultAthleteID is the synthetic demo user; batch runs skip it.
	DefaultAthleteID int64 = -1

	// PlaceholderActivityID marks a zero-valued activity synthesized for a day
	// with no recorded exercise.
	PlaceholderActivityID int64 = -1

	DefaultObserveFile = "observe.jsonl"
)

// CoachRole is the persona prepended to every coaching prompt.
const CoachRole = "You are a talented running coach with years of experience. " +
	"You have been hired by a client to help them improve their running performance. " +
	"Note: convert pace values where applicable e.g. 7.5 -> 7m 30s."
