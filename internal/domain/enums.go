package domain

// WeekType classifies a planned week within a training block.
type WeekType string

const (
	WeekBuild       WeekType = "build"
	WeekPeak        WeekType = "peak"
	WeekTaper       WeekType = "taper"
	WeekRace        WeekType = "race"
	WeekMaintenance WeekType = "maintenance"
)

// ValidWeekTypes is the canonical set of accepted week type strings.
var ValidWeekTypes = map[WeekType]bool{
	WeekBuild: true, WeekPeak: true, WeekTaper: true, WeekRace: true, WeekMaintenance: true,
}

func (w WeekType) Valid() bool { return ValidWeekTypes[w] }

// Day is the short day-of-week label used by sessions and daily records.
type Day string

const (
	Mon   Day = "mon"
	Tues  Day = "tues"
	Wed   Day = "wed"
	Thurs Day = "thurs"
	Fri   Day = "fri"
	Sat   Day = "sat"
	Sun   Day = "sun"
)

// WeekDays lists days in ISO order, Monday first.
var WeekDays = []Day{Mon, Tues, Wed, Thurs, Fri, Sat, Sun}

func (d Day) Valid() bool {
	for _, wd := range WeekDays {
		if wd == d {
			return true
		}
	}
	return false
}

type SessionType string

const (
	SessionEasy     SessionType = "easy run"
	SessionLong     SessionType = "long run"
	SessionSpeed    SessionType = "speed workout"
	SessionRest     SessionType = "rest day"
	SessionModerate SessionType = "moderate run"
)

var ValidSessionTypes = map[SessionType]bool{
	SessionEasy: true, SessionLong: true, SessionSpeed: true, SessionRest: true, SessionModerate: true,
}

func (s SessionType) Valid() bool { return ValidSessionTypes[s] }

type RaceDistance string

const (
	RaceFiveK         RaceDistance = "5K"
	RaceTenK          RaceDistance = "10K"
	RaceHalfMarathon  RaceDistance = "Half Marathon"
	RaceMarathon      RaceDistance = "Marathon"
	RaceUltraMarathon RaceDistance = "Ultra Marathon"
	RaceNone          RaceDistance = "none"
)

// RaceDistances lists the selectable race distances in display order.
var RaceDistances = []RaceDistance{
	RaceFiveK, RaceTenK, RaceHalfMarathon, RaceMarathon, RaceUltraMarathon, RaceNone,
}

func (r RaceDistance) Valid() bool {
	for _, d := range RaceDistances {
		if d == r {
			return true
		}
	}
	return false
}

// ExeType selects the orchestration branch for a training week update.
type ExeType string

const (
	NewWeek ExeType = "NEW_WEEK"
	MidWeek ExeType = "MID_WEEK"
)

func (e ExeType) Valid() bool { return e == NewWeek || e == MidWeek }
