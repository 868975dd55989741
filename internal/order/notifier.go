package order

import (
	"context"
	"sort"

	"storefront/internal/domain"
	"storefront/internal/logger"
)

// Notifier tells suppliers about a placed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o domain.Order) error
}

// LogNotifier records one log line per supplier share.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) OrderPlaced(ctx context.Context, o domain.Order) error {
	ids := make([]string, 0, len(o.Suppliers))
	for id := range o.Suppliers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		share := o.Suppliers[id]
		n.logger.Info(ctx, "order: supplier notified",
			"order_id", o.ID,
			"supplier_id", id,
			"items", len(share.Items),
			"total_cents", share.TotalCents,
		)
	}
	return nil
}
