package notify

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// SendGridConfig configures the alert email sender.
type SendGridConfig struct {
	APIKey    string `split_words:"true"`
	BaseURL   string `split_words:"true" default:"https://api.sendgrid.com"`
	FromEmail string `split_words:"true" default:"alerts@racecoach.app"`
	AlertTo   string `split_words:"true"`
}

// Enabled reports whether enough is configured to send mail.
func (c SendGridConfig) Enabled() bool {
	return c.APIKey != "" && c.AlertTo != ""
}

// SendGridAlerter sends plain-text alerts through the SendGrid v3 mail API.
type SendGridAlerter struct {
	http *resty.Client
	from string
	to   string
}

func NewSendGridAlerter(cfg SendGridConfig) *SendGridAlerter {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey).
		SetTimeout(15 * time.Second)
	return &SendGridAlerter{http: c, from: cfg.FromEmail, to: cfg.AlertTo}
}

type mailAddress struct {
	Email string `json:"email"`
}

type mailPersonalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSendRequest struct {
	Personalizations []mailPersonalization `json:"personalizations"`
	From             mailAddress           `json:"from"`
	Subject          string                `json:"subject"`
	Content          []mailContent         `json:"content"`
}

func (a *SendGridAlerter) SendAlertEmail(ctx context.Context, subject, body string) error {
	req := mailSendRequest{
		Personalizations: []mailPersonalization{{To: []mailAddress{{Email: a.to}}}},
		From:             mailAddress{Email: a.from},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	}
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/v3/mail/send")
	return checkResponse("sendgrid", resp, err)
}
