package market

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStore is the persistence surface the order service needs. WithTx
// must run fn atomically: every store call made with the inner context
// commits or rolls back as one unit.
type OrderStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	SumTotal(ctx context.Context, orderID string) (int, error)
	SetTotal(ctx context.Context, orderID string, totalCents int) error
	InsertPlacement(ctx context.Context, pl *Placement) error
	GetPlacement(ctx context.Context, id string) (Placement, error)
	DeletePlacement(ctx context.Context, id string) error
	GetProductForUpdate(ctx context.Context, id string) (Product, error)
	AdjustProductQuantity(ctx context.Context, productID string, delta int) error
}

type EventPublisher interface {
	Publish(key, value []byte)
}

type OrderCache interface {
	Invalidate(ctx context.Context, orderID string)
}

type OrderItemInput struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

// OrderService keeps the two derived values consistent as placements
// change: the product's stock quantity and the order's total. The whole
// sequence runs in one transaction, so a missing product (or any other
// failure) leaves neither the stock nor the total touched.
type OrderService struct {
	Store     OrderStore
	Publisher EventPublisher // optional
	Cache     OrderCache     // optional
	Service   string
}

// CreateOrder checks out a new order for userID: one placement per item,
// stock decremented per placement, total recomputed from the placements.
// Stock is allowed to go negative; there is deliberately no floor check
// before the decrement.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, items []OrderItemInput) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	for _, it := range items {
		if it.ProductID == "" {
			return Order{}, ValidationError{"products": "each product needs an id"}
		}
		if it.Quantity <= 0 {
			return Order{}, ValidationError{"products": "each quantity must be positive"}
		}
	}

	items = mergeItems(items)

	order := Order{ID: uuid.NewString(), UserID: userID}
	var lines []OrderLine

	err := s.Store.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.Store.Insert(txCtx, &order); err != nil {
			return err
		}

		for _, it := range items {
			// Fails fast when the product is gone; the rollback keeps
			// any already-adjusted stock untouched.
			product, err := s.Store.GetProductForUpdate(txCtx, it.ProductID)
			if err != nil {
				return err
			}

			pl := Placement{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  it.Quantity,
			}
			if err := s.Store.InsertPlacement(txCtx, &pl); err != nil {
				return err
			}
			if err := s.Store.AdjustProductQuantity(txCtx, product.ID, -it.Quantity); err != nil {
				return err
			}

			lines = append(lines, OrderLine{
				ProductID:  product.ID,
				Quantity:   it.Quantity,
				PriceCents: product.PriceCents,
			})
		}

		total, err := s.Store.SumTotal(txCtx, order.ID)
		if err != nil {
			return err
		}
		if err := s.Store.SetTotal(txCtx, order.ID, total); err != nil {
			return err
		}
		order.TotalCents = total
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.publishCreated(order, lines)
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, order.ID)
	}
	return order, nil
}

// RemovePlacement undoes one order line: the reserved stock goes back on
// the product before the row is deleted, and the order total is
// recomputed afterwards (0 when no placements remain).
func (s *OrderService) RemovePlacement(ctx context.Context, userID, placementID string) error {
	var orderID string

	err := s.Store.WithTx(ctx, func(txCtx context.Context) error {
		pl, err := s.Store.GetPlacement(txCtx, placementID)
		if err != nil {
			return err
		}
		order, err := s.Store.Get(txCtx, pl.OrderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrForbidden
		}
		orderID = order.ID

		if _, err := s.Store.GetProductForUpdate(txCtx, pl.ProductID); err != nil {
			return err
		}
		if err := s.Store.AdjustProductQuantity(txCtx, pl.ProductID, pl.Quantity); err != nil {
			return err
		}
		if err := s.Store.DeletePlacement(txCtx, pl.ID); err != nil {
			return err
		}

		total, err := s.Store.SumTotal(txCtx, orderID)
		if err != nil {
			return err
		}
		return s.Store.SetTotal(txCtx, orderID, total)
	})
	if err != nil {
		return err
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, orderID)
	}
	return nil
}

// mergeItems folds repeated product ids into a single line each, summing
// their quantities, so an order carries one placement per distinct
// product. First-occurrence order is preserved.
func mergeItems(items []OrderItemInput) []OrderItemInput {
	idx := make(map[string]int, len(items))
	merged := make([]OrderItemInput, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

func (s *OrderService) publishCreated(order Order, lines []OrderLine) {
	if s.Publisher == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: order.ID,
		Payload: mustMarshal(OrderCreatedPayload{
			OrderID:    order.ID,
			UserID:     order.UserID,
			Items:      lines,
			TotalCents: order.TotalCents,
		}),
	}
	s.Publisher.Publish(PartitionKey(order.ID), mustMarshal(ev))
}
