// Package notify delivers order and stock events to email, SMS, websocket
// subscribers and the event log once the database work has committed.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"perfume-backend/internal/models"
)

// OrderHandler reacts to a newly created order. Implementations log their own
// failures; the dispatcher only guards against panics and slow calls.
type OrderHandler interface {
	HandleOrderCreated(ctx context.Context, order models.Order)
}

// StockHandler reacts to a product running low.
type StockHandler interface {
	HandleLowStock(ctx context.Context, product models.Product)
}

type eventKind int

const (
	orderCreated eventKind = iota
	lowStock
)

func (k eventKind) String() string {
	if k == orderCreated {
		return "order_created"
	}
	return "low_stock"
}

type event struct {
	kind    eventKind
	order   models.Order
	product models.Product
}

const defaultHandlerTimeout = 30 * time.Second

// Dispatcher queues events on a bounded channel and fans them out from a
// single worker. Publishing never blocks: with a full buffer the event is
// dropped and logged.
type Dispatcher struct {
	events         chan event
	orderHandlers  []OrderHandler
	stockHandlers  []StockHandler
	handlerTimeout time.Duration
	logger         *slog.Logger
}

func NewDispatcher(buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		events:         make(chan event, buffer),
		handlerTimeout: defaultHandlerTimeout,
		logger:         logger.With("component", "notify"),
	}
}

// OnOrderCreated registers handlers. It must be called before Run.
func (d *Dispatcher) OnOrderCreated(handlers ...OrderHandler) {
	d.orderHandlers = append(d.orderHandlers, handlers...)
}

// OnLowStock registers handlers. It must be called before Run.
func (d *Dispatcher) OnLowStock(handlers ...StockHandler) {
	d.stockHandlers = append(d.stockHandlers, handlers...)
}

func (d *Dispatcher) PublishOrderCreated(order models.Order) {
	d.enqueue(event{kind: orderCreated, order: order})
}

func (d *Dispatcher) PublishLowStock(product models.Product) {
	d.enqueue(event{kind: lowStock, product: product})
}

func (d *Dispatcher) enqueue(ev event) {
	select {
	case d.events <- ev:
	default:
		d.logger.Warn("notification queue full, event dropped",
			"event", ev.kind.String(),
			"orderId", ev.order.ID.Hex(),
			"productId", ev.product.ID.Hex(),
		)
	}
}

// Run consumes events until ctx is cancelled, then delivers whatever is
// still buffered before returning.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("notification dispatcher started",
		"orderHandlers", len(d.orderHandlers),
		"stockHandlers", len(d.stockHandlers),
	)
	for {
		select {
		case ev := <-d.events:
			d.dispatch(ctx, ev)
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			d.logger.Info("notification dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev := <-d.events:
			d.dispatch(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev event) {
	var wg sync.WaitGroup
	switch ev.kind {
	case orderCreated:
		for _, h := range d.orderHandlers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.call(ctx, ev, func(ctx context.Context) { h.HandleOrderCreated(ctx, ev.order) })
			}()
		}
	case lowStock:
		for _, h := range d.stockHandlers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.call(ctx, ev, func(ctx context.Context) { h.HandleLowStock(ctx, ev.product) })
			}()
		}
	}
	wg.Wait()
}

func (d *Dispatcher) call(ctx context.Context, ev event, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(ctx, d.handlerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification handler panicked",
				"event", ev.kind.String(),
				"panic", r,
			)
		}
	}()
	fn(ctx)
}
