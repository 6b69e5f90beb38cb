package alerter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/messages"
)

// UnderwaterNotifier consumes underwater events and forwards one alert per
// event. Send failures are logged and dropped; alerting is best effort.
type UnderwaterNotifier struct {
	alerter Alerter
	logger  zerolog.Logger
}

func NewUnderwaterNotifier(alerter Alerter, logger zerolog.Logger) *UnderwaterNotifier {
	return &UnderwaterNotifier{
		alerter: alerter,
		logger:  logger.With().Str("component", "underwater-notifier").Logger(),
	}
}

// Run drains the channel until it closes or the context ends.
func (n *UnderwaterNotifier) Run(ctx context.Context, events <-chan messages.UnderwaterEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := n.alerter.Underwater(ev); err != nil {
				n.logger.Warn().
					Str("trace_id", ev.TraceID).
					Str("address", ev.Address.Hex()).
					Err(err).
					Msg("alert delivery failed")
			}
		}
	}
}
