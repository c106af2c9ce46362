// Package strava reads an athlete's runs from the Strava v3 API.
package strava

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/racecoach/internal/activity"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/go-resty/resty/v2"
)

// SportRun is the only sport type the coach plans around.
const SportRun = "Run"

const defaultPageSize = 200

type Config struct {
	BaseURL  string        `split_words:"true" default:"https://www.strava.com/api/v3"`
	PageSize int           `split_words:"true" default:"200"`
	Timeout  time.Duration `default:"30s"`
}

// Client is an activity source bound to one athlete's access token.
type Client struct {
	http     *resty.Client
	pageSize int
}

var (
	_ activity.Source       = (*Client)(nil)
	_ activity.DetailSource = (*Client)(nil)
)

func NewClient(cfg Config, accessToken string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r != nil && r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: c, pageSize: pageSize}
}

// ListActivities returns every run that started in (after, before), oldest
// first as Strava returns them.
func (c *Client) ListActivities(ctx context.Context, after, before time.Time) ([]domain.Activity, error) {
	var out []domain.Activity
	for page := 1; ; page++ {
		var batch []summaryActivity
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"after":    fmt.Sprint(after.Unix()),
				"before":   fmt.Sprint(before.Unix()),
				"page":     fmt.Sprint(page),
				"per_page": fmt.Sprint(c.pageSize),
			}).
			SetResult(&batch).
			Get("/athlete/activities")
		if err := check(resp, err); err != nil {
			return nil, fmt.Errorf("listing activities page %d: %w", page, err)
		}

		for _, a := range batch {
			if a.SportType != SportRun {
				continue
			}
			out = append(out, a.toDomain())
		}
		if len(batch) < c.pageSize {
			return out, nil
		}
	}
}

// GetActivityDetail fetches one activity and converts it, with its mile
// splits when Strava has them, into coach-facing units.
func (c *Client) GetActivityDetail(ctx context.Context, activityID int64) (domain.DetailedActivity, error) {
	var a detailedActivity
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprint(activityID)).
		SetResult(&a).
		Get("/activities/{id}")
	if err := check(resp, err); err != nil {
		return domain.DetailedActivity{}, fmt.Errorf("getting activity %d: %w", activityID, err)
	}
	return a.toDetail(), nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 300 {
			body = body[:300]
		}
		return &StatusError{StatusCode: resp.StatusCode(), Body: body}
	}
	return nil
}

// StatusError reports a non-2xx Strava response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("strava returned HTTP %d: %s", e.StatusCode, e.Body)
}
