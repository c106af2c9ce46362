package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	pushTitle = "Your training week has been updated!"
	pushBody  = "Check out your latest training week and coach's notes."
)

// PushConfig configures the push gateway.
type PushConfig struct {
	Endpoint string
	APIKey   string `split_words:"true"`
}

func (c PushConfig) Enabled() bool {
	return c.Endpoint != ""
}

// GatewayPusher posts notifications to an HTTP push gateway that forwards
// them to the athlete's device.
type GatewayPusher struct {
	http *resty.Client
}

func NewGatewayPusher(cfg PushConfig) *GatewayPusher {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &GatewayPusher{http: c}
}

type pushRequest struct {
	DeviceToken string `json:"device_token"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func (p *GatewayPusher) SendPush(ctx context.Context, user domain.User) error {
	if user.DeviceToken == "" {
		return fmt.Errorf("user %d: %w", user.AthleteID, ErrNoDeviceToken)
	}
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(&pushRequest{DeviceToken: user.DeviceToken, Title: pushTitle, Body: pushBody}).
		Post("/push")
	return checkResponse("push gateway", resp, err)
}
