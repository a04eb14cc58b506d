package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"perfume-backend/internal/models"
)

// OrderSummary is the payload pushed to dashboards and the event log.
type OrderSummary struct {
	OrderID       string       `json:"orderId"`
	CustomerName  string       `json:"customerName"`
	CustomerEmail string       `json:"customerEmail"`
	CustomerPhone string       `json:"customerPhone"`
	TotalAmount   models.Money `json:"totalAmount"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func NewOrderSummary(order models.Order) OrderSummary {
	return OrderSummary{
		OrderID:       order.ID.Hex(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
	}
}

// Broadcaster fans a message out to every subscriber of a topic.
type Broadcaster interface {
	Broadcast(topic string, payload []byte)
}

// OrdersTopic is the topic new orders are broadcast on.
const OrdersTopic = "orders"

type OrderBroadcaster struct {
	hub    Broadcaster
	logger *slog.Logger
}

func NewOrderBroadcaster(hub Broadcaster, logger *slog.Logger) *OrderBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderBroadcaster{hub: hub, logger: logger.With("component", "broadcast")}
}

func (b *OrderBroadcaster) HandleOrderCreated(_ context.Context, order models.Order) {
	b.BroadcastNewOrder(order)
}

func (b *OrderBroadcaster) BroadcastNewOrder(order models.Order) {
	payload, err := json.Marshal(NewOrderSummary(order))
	if err != nil {
		b.logger.Error("encode order summary", "orderId", order.ID.Hex(), "error", err)
		return
	}
	b.hub.Broadcast(OrdersTopic, payload)
	b.logger.Debug("order broadcast", "orderId", order.ID.Hex())
}
