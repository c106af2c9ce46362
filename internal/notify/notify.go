// Package notify delivers operator alerts by email and update notices to
// athletes' devices.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/go-resty/resty/v2"
)

// ErrNoDeviceToken is returned when a push is requested for a user who never
// registered a device.
var ErrNoDeviceToken = errors.New("user has no device token")

// Alerter sends operator alert emails.
type Alerter interface {
	SendAlertEmail(ctx context.Context, subject, body string) error
}

// Pusher notifies an athlete that a new training week is ready.
type Pusher interface {
	SendPush(ctx context.Context, user domain.User) error
}

// NoopAlerter drops every alert. Used when no email provider is configured.
type NoopAlerter struct{}

func (NoopAlerter) SendAlertEmail(context.Context, string, string) error { return nil }

// NoopPusher drops every push. Used when no push gateway is configured.
type NoopPusher struct{}

func (NoopPusher) SendPush(context.Context, domain.User) error { return nil }

// StatusError reports a non-2xx response from a delivery provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

func checkResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 500 {
			body = body[:500]
		}
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode(), Body: body}
	}
	return nil
}
