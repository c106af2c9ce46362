package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/racecoach/internal/domain"
)

func FormatUserList(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		id := strconv.FormatInt(u.AthleteID, 10)
		if u.AthleteID == domain.DefaultAthleteID {
			id = Dim(id + " (demo)")
		}
		email := u.Email
		if email == "" {
			email = Dim("--")
		}
		rows = append(rows, []string{
			id,
			email,
			RaceLabel(u.Preferences),
			idealWeekLabel(u.Preferences.IdealTrainingWeek),
			tokenState(u.DeviceToken),
		})
	}
	return RenderTable([]string{"ATHLETE", "EMAIL", "RACE", "IDEAL WEEK", "PUSH"}, rows)
}

func idealWeekLabel(sessions []domain.TheoreticalTrainingSession) string {
	if len(sessions) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(sessions))
	for i, s := range sessions {
		parts[i] = string(s.Day) + ":" + string(s.SessionType)
	}
	return strings.Join(parts, ", ")
}

func tokenState(token string) string {
	if token == "" {
		return StyleDim.Render("off")
	}
	return StyleGreen.Render("on")
}
