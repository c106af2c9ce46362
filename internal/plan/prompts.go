package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// skeletonSchemaPrompt describes the JSON shape expected from the skeleton call.
const skeletonSchemaPrompt = `Your JSON response must be an object with exactly one field:
- weeks: array with one entry per week range, in the same order, each with:
  - week_num: integer, the week_number of the matching range
  - week_type: the type of week this is, one of: build, peak, taper, race, maintenance
  - volume: number, how many miles the athlete should aim to run in this week
  - long_run: number, how many miles the athlete should aim to run in their long run this week

Use strict JSON numeric literals (e.g. 0.5, never .5). Do not add or drop weeks.`

// weekSchemaPrompt describes the JSON shape expected from one elaboration call.
const weekSchemaPrompt = `Your JSON response must be an object with exactly these fields:
- week_type: one of: build, peak, taper, race, maintenance
- notes: 2-3 sentences. How will this week contribute to the athlete's goal of running race_distance miles by the race_date?`

// SkeletonPrompt is the typed input of the skeleton phase.
type SkeletonPrompt struct {
	RaceDistance *domain.RaceDistance
	RaceDate     *time.Time
	Today        time.Time
	Stats52      Stats
	Stats16      Stats
	Ranges       []domain.WeekRange
}

// Build renders the user prompt. Missing required fields are reported
// instead of leaving blanks in the text.
func (p SkeletonPrompt) Build() (string, error) {
	if p.Today.IsZero() {
		return "", errors.New("skeleton prompt: today is required")
	}
	if len(p.Ranges) == 0 {
		return "", errors.New("skeleton prompt: at least one week range is required")
	}

	var b strings.Builder
	b.WriteString(domain.CoachRole)
	b.WriteString("\n\n")
	writeRaceContext(&b, p.RaceDistance, p.RaceDate, p.Today)
	writeStats(&b, p.Stats52, p.Stats16)

	fmt.Fprintf(&b, "The training block has %d weeks:\n", len(p.Ranges))
	for _, r := range p.Ranges {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	b.WriteString("\nCreate a week-by-week mileage plan covering every week range above. " +
		"Progress volume gradually from the athlete's recent mileage, include lighter weeks, " +
		"and taper into race week. Return exactly one entry per week range.")
	return b.String(), nil
}

// WeekPrompt is the typed input of one elaboration call.
type WeekPrompt struct {
	RaceDistance *domain.RaceDistance
	RaceDate     *time.Time
	Today        time.Time
	Stats52      Stats
	Stats16      Stats
	Light        domain.TrainingPlanWeekLight
	BlockLength  int
}

func (p WeekPrompt) Build() (string, error) {
	if p.Today.IsZero() {
		return "", errors.New("week prompt: today is required")
	}
	if p.BlockLength < 1 {
		return "", fmt.Errorf("week prompt: block length must be positive, got %d", p.BlockLength)
	}

	var b strings.Builder
	b.WriteString(domain.CoachRole)
	b.WriteString("\n\n")
	writeRaceContext(&b, p.RaceDistance, p.RaceDate, p.Today)
	writeStats(&b, p.Stats52, p.Stats16)

	fmt.Fprintf(&b, "This week is one of %d weeks in the training block:\n", p.BlockLength)
	fmt.Fprintf(&b, "week_num=%d week_type=%s volume=%g long_run=%g\n\n",
		p.Light.WeekNum, p.Light.WeekType, p.Light.Volume, p.Light.LongRun)
	b.WriteString("Classify this week and explain to the athlete how it fits the block.")
	return b.String(), nil
}

func writeRaceContext(b *strings.Builder, distance *domain.RaceDistance, date *time.Time, today time.Time) {
	race := "no race planned"
	if distance != nil && *distance != domain.RaceNone {
		race = string(*distance)
	}
	raceDate := "none (general fitness block)"
	if date != nil {
		raceDate = date.Format(domain.DateLayout)
	}
	fmt.Fprintf(b, "Race distance: %s\nRace date: %s\nToday: %s\n\n", race, raceDate, today.Format(domain.DateLayout))
}

func writeStats(b *strings.Builder, last52, last16 Stats) {
	b.WriteString("Mileage stats over the last 52 weeks:\n")
	b.WriteString(last52.String())
	b.WriteString("\nMileage stats over the last 16 weeks:\n")
	b.WriteString(last16.String())
	b.WriteByte('\n')
}
