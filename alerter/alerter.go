// Package alerter pushes underwater account notifications to an external
// channel.
package alerter

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"

	"github.com/keeper-labs/liquidation-engine/messages"
)

// Alerter sends operator-facing messages.
type Alerter interface {
	SendMessage(text string) error
	Underwater(ev messages.UnderwaterEvent) error
}

// SlackAlerter posts messages to a Slack incoming webhook.
type SlackAlerter struct {
	webhookUrl string
}

// Verify interface compliance at compile time
var _ Alerter = (*SlackAlerter)(nil)

// NewSlackAlerter returns a new SlackAlerter that posts messages to a specific webhook
func NewSlackAlerter(webhookUrl string) SlackAlerter {
	return SlackAlerter{webhookUrl: webhookUrl}
}

// SendMessage sends a string message to a given channel
func (s *SlackAlerter) SendMessage(message string) error {
	return slack.PostWebhook(s.webhookUrl, &slack.WebhookMessage{Text: message})
}

// Underwater sends a WARN level message describing an underwater account
func (s *SlackAlerter) Underwater(ev messages.UnderwaterEvent) error {
	return s.SendMessage(fmt.Sprintf(":warning: [WARN] %s", formatEvent(ev)))
}

func formatEvent(ev messages.UnderwaterEvent) string {
	collateral := decimal.NewFromBigInt(ev.TotalCollateralBase, -8)
	healthFactor := decimal.NewFromBigInt(ev.AccountData.HealthFactor, -18)
	return fmt.Sprintf(
		"account %s is underwater (health factor %s, total collateral $%s, trace %s)",
		ev.Address.Hex(),
		healthFactor.StringFixed(4),
		collateral.StringFixed(2),
		ev.TraceID,
	)
}
