package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
)

// ErrNotWeekComplete is returned when a mileage recommendation is requested
// before the current week has ended.
var ErrNotWeekComplete = errors.New("mileage recommendation can only be generated on Sunday when the week is complete")

// RequireWeekComplete fails with ErrNotWeekComplete unless dt is a Sunday.
func RequireWeekComplete(dt time.Time) error {
	if !domain.IsSunday(dt) {
		return fmt.Errorf("%w: got %s", ErrNotWeekComplete, dt.Weekday())
	}
	return nil
}

// CardinalityError reports a skeleton whose week count never matched the
// requested ranges.
type CardinalityError struct {
	Expected int
	Got      int
	Attempts int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("training plan skeleton: expected %d weeks, got %d in the final attempt (%d attempts)",
		e.Expected, e.Got, e.Attempts)
}

// ElaborationError carries the weeks that finished before the first
// failing elaboration call.
type ElaborationError struct {
	Completed []domain.TrainingPlanWeek
	Err       error
}

func (e *ElaborationError) Error() string {
	return fmt.Sprintf("elaborating training plan (%d weeks completed): %v", len(e.Completed), e.Err)
}

func (e *ElaborationError) Unwrap() error { return e.Err }
