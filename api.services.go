package main

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/jeamon/bookstore-inventory"

type InventoryServiceProvider interface {
	Add(ctx context.Context, book Book) (Book, error)
	Remove(ctx context.Context, bookID string) (bool, error)
	Update(ctx context.Context, bookID string, fields BookUpdate) (Book, bool, error)
	Get(ctx context.Context, bookID string) (Book, bool, error)
	List(ctx context.Context, page Page) ([]Book, error)
	PriceOrder(ctx context.Context, order Order) (float64, bool, error)
	Ping(ctx context.Context) error
}

type InventoryService struct {
	logger *zap.Logger
	tracer trace.Tracer
	store  InventoryStore
	pricer *OrderPricer
	queue  Queuer
}

func NewInventoryService(logger *zap.Logger, store InventoryStore, pricer *OrderPricer, queue Queuer) InventoryServiceProvider {
	return &InventoryService{
		logger: logger,
		tracer: otel.Tracer(tracerName),
		store:  store,
		pricer: pricer,
		queue:  queue,
	}
}

// startSpan opens a span for a service operation on the given book.
func (is *InventoryService) startSpan(ctx context.Context, name, bookID string) (context.Context, trace.Span) {
	return is.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("book.id", bookID)))
}

// endSpan records the operation outcome on the span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publish pushes a committed change. The primary store is the source of
// truth so a push failure is only logged.
func (is *InventoryService) publish(ctx context.Context, qid string, event InventoryEvent) {
	if err := is.queue.Push(ctx, qid, event); err != nil {
		is.logger.Error("service: failed to push event to queue", zap.String("qid", qid), zap.String("book.id", event.BookID), zap.Error(err))
	}
}

func (is *InventoryService) Add(ctx context.Context, book Book) (b Book, err error) {
	ctx, span := is.startSpan(ctx, "inventory.add", book.BookID)
	defer func() { endSpan(span, err) }()

	if err = ValidateBook(book); err != nil {
		return book, err
	}
	b, err = is.store.Add(ctx, book)
	if err != nil {
		return b, err
	}
	is.publish(ctx, CreatedQueue, InventoryEvent{BookID: b.BookID, Book: &b})
	return b, nil
}

func (is *InventoryService) Remove(ctx context.Context, bookID string) (found bool, err error) {
	ctx, span := is.startSpan(ctx, "inventory.remove", bookID)
	defer func() { endSpan(span, err) }()

	found, err = is.store.Remove(ctx, bookID)
	if err != nil || !found {
		return found, err
	}
	is.publish(ctx, RemovedQueue, InventoryEvent{BookID: bookID})
	return true, nil
}

// Update applies the partial update and returns the resulting record.
func (is *InventoryService) Update(ctx context.Context, bookID string, fields BookUpdate) (b Book, found bool, err error) {
	ctx, span := is.startSpan(ctx, "inventory.update", bookID)
	defer func() { endSpan(span, err) }()

	if err = ValidateBookUpdate(fields); err != nil {
		return b, false, err
	}
	found, err = is.store.Update(ctx, bookID, fields)
	if err != nil || !found {
		return b, found, err
	}
	if !fields.IsEmpty() {
		is.publish(ctx, UpdatedQueue, InventoryEvent{BookID: bookID, Fields: &fields})
	}

	b, found, err = is.store.Get(ctx, bookID)
	if err == nil && !found {
		// removed between the update and the read.
		is.logger.Warn("service: updated book vanished before read back", zap.String("book.id", bookID))
	}
	return b, found, err
}

func (is *InventoryService) Get(ctx context.Context, bookID string) (b Book, found bool, err error) {
	ctx, span := is.startSpan(ctx, "inventory.get", bookID)
	defer func() { endSpan(span, err) }()
	return is.store.Get(ctx, bookID)
}

func (is *InventoryService) List(ctx context.Context, page Page) (books []Book, err error) {
	ctx, span := is.tracer.Start(ctx, "inventory.list", trace.WithAttributes(
		attribute.Int("page.offset", page.Offset),
		attribute.Int("page.limit", page.Limit),
	))
	defer func() { endSpan(span, err) }()
	return is.store.List(ctx, page)
}

func (is *InventoryService) PriceOrder(ctx context.Context, order Order) (total float64, found bool, err error) {
	ctx, span := is.startSpan(ctx, "inventory.price_order", order.BookID)
	span.SetAttributes(attribute.Int("order.quantity", order.Quantity))
	defer func() {
		if err != nil && errors.Is(err, ErrInsufficientStock) {
			span.SetAttributes(attribute.Bool("inventory.available", false))
		}
		endSpan(span, err)
	}()

	total, found, err = is.pricer.PriceOrder(ctx, order, is.store)
	if err == nil && found {
		span.SetAttributes(attribute.Float64("order.total", total))
	}
	return total, found, err
}

func (is *InventoryService) Ping(ctx context.Context) error {
	return is.store.Ping(ctx)
}
