package notify

import (
	"context"
	"log/slog"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// LogNotifier records seat changes in the service log. It is used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SeatChanged(ctx context.Context, change domain.SeatChange) error {
	n.logger.InfoContext(ctx, "seat changed",
		"event_id", change.EventID,
		"seat_id", change.SeatID,
		"row", change.Row,
		"column", change.Column,
		"reservation_id", change.ReservationID,
		"action", string(change.Action),
	)
	return nil
}
