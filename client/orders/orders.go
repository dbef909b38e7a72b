// Package orders persists completed bookings on the client. Orders are
// append-only: once written they are never updated or deleted.
package orders

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alexaslastina/makeadate/client/storage"
	"github.com/Alexaslastina/makeadate/internal/domain"
)

const ordersKey = "makeadate_orders"

type Store struct {
	store storage.Store
	mu    sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

func NewStore(store storage.Store) *Store {
	return &Store{store: store, now: time.Now}
}

// CreateOrderInput carries everything the checkout flow knows at
// payment time; id, status and creation timestamp are assigned here.
type CreateOrderInput struct {
	UserID         string
	Items          []domain.OrderItem
	TotalAmount    float64
	PaymentDetails domain.PaymentDetails
	BillingInfo    domain.BillingInfo
}

func (s *Store) loadAll() ([]domain.Order, error) {
	data, err := s.store.Get(ordersKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var all []domain.Order
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return all, nil
}

// Create appends a completed order. The write is all-or-nothing: on
// any error no order is persisted.
func (s *Store) Create(input CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("order requires a user id")
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("order requires at least one item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		ID:             "order-" + uuid.NewString(),
		UserID:         input.UserID,
		Items:          input.Items,
		TotalAmount:    input.TotalAmount,
		PaymentDetails: input.PaymentDetails,
		BillingInfo:    input.BillingInfo,
		Status:         domain.OrderCompleted,
		CreatedAt:      s.now(),
	}

	all = append(all, order)
	data, err := json.Marshal(all)
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.store.Set(ordersKey, data); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return &order, nil
}

// ListByUser returns the user's orders, oldest first.
func (s *Store) ListByUser(userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	var mine []domain.Order
	for _, order := range all {
		if order.UserID == userID {
			mine = append(mine, order)
		}
	}
	return mine, nil
}

// GetByID returns one of the user's orders, or nil when absent.
func (s *Store) GetByID(orderID, userID string) (*domain.Order, error) {
	mine, err := s.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	for i := range mine {
		if mine[i].ID == orderID {
			return &mine[i], nil
		}
	}
	return nil, nil
}
