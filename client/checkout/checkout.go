// Package checkout orchestrates the favorites -> order pipeline as a
// small state machine: review the items, take billing details, charge
// through the gateway, persist the order, clear the cart.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alexaslastina/makeadate/client/favorites"
	"github.com/Alexaslastina/makeadate/client/orders"
	"github.com/Alexaslastina/makeadate/client/session"
	"github.com/Alexaslastina/makeadate/internal/domain"
	"github.com/Alexaslastina/makeadate/pkg/events"
	"github.com/Alexaslastina/makeadate/pkg/logger"
)

type State string

const (
	StateIdle          State = "idle"
	StateReviewSummary State = "review_summary"
	StateSubmitting    State = "submitting"
	StateSuccess       State = "success"
)

const minCardNumberLen = 16

const dateLayout = "2006-01-02"

// BillingForm is the checkout form as submitted.
type BillingForm struct {
	FullName   string
	Email      string
	Address    string
	City       string
	ZipCode    string
	Country    string
	CardNumber string
	CardName   string
	ExpiryDate string
	CVV        string
}

type Workflow struct {
	session   *session.Cache
	favorites *favorites.Store
	orders    *orders.Store
	gateway   PaymentGateway
	eventBus  events.Publisher

	mu            sync.Mutex
	state         State
	items         []domain.OrderItem
	fromFavorites bool
	lastErr       error

	// now is swappable in tests.
	now func() time.Time
}

func NewWorkflow(sess *session.Cache, favs *favorites.Store, ords *orders.Store, gateway PaymentGateway, bus events.Publisher) *Workflow {
	if bus == nil {
		bus = events.NewNoopEventBus()
	}
	return &Workflow{
		session:   sess,
		favorites: favs,
		orders:    ords,
		gateway:   gateway,
		eventBus:  bus,
		state:     StateIdle,
		now:       time.Now,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err returns the error that sent the workflow back to review, if any.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Items returns the line items under review.
func (w *Workflow) Items() []domain.OrderItem {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.OrderItem, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Workflow) tomorrow() string {
	return w.now().AddDate(0, 0, 1).Format(dateLayout)
}

// Begin moves Idle -> ReviewSummary with the selected items. Each item
// gets a default reservation date of tomorrow. fromFavorites records
// whether checkout started from the favorites view, which decides
// whether the cart is cleared on success.
func (w *Workflow) Begin(items []domain.FavoriteItem, fromFavorites bool) error {
	if !w.session.IsLoggedIn() {
		return fmt.Errorf("checkout requires a logged-in user")
	}
	if len(items) == 0 {
		return fmt.Errorf("checkout requires at least one item")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return fmt.Errorf("checkout already in progress (state %s)", w.state)
	}

	tomorrow := w.tomorrow()
	w.items = make([]domain.OrderItem, len(items))
	for i, item := range items {
		w.items[i] = domain.OrderItem{
			FavoriteItem:    item,
			Quantity:        1,
			ReservationDate: tomorrow,
		}
	}
	w.fromFavorites = fromFavorites
	w.lastErr = nil
	w.state = StateReviewSummary
	return nil
}

// SetReservationDate updates one item's booking date during review.
func (w *Workflow) SetReservationDate(itemID, date string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReviewSummary {
		return fmt.Errorf("cannot change dates in state %s", w.state)
	}

	for i := range w.items {
		if w.items[i].ID == itemID {
			w.items[i].ReservationDate = date
			return nil
		}
	}
	return fmt.Errorf("no item %q in checkout", itemID)
}

// Subtotal, Tax and Total mirror the order summary panel.
func (w *Workflow) Subtotal() float64 { return domain.Subtotal(w.Items()) }
func (w *Workflow) Tax() float64      { return domain.Tax(w.Subtotal()) }
func (w *Workflow) Total() float64    { return domain.Total(w.Subtotal()) }

func (w *Workflow) validate(form BillingForm) error {
	required := map[string]string{
		"full name":   form.FullName,
		"email":       form.Email,
		"address":     form.Address,
		"city":        form.City,
		"zip code":    form.ZipCode,
		"country":     form.Country,
		"card number": form.CardNumber,
		"card name":   form.CardName,
		"expiry date": form.ExpiryDate,
		"cvv":         form.CVV,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
	}

	if len(form.CardNumber) < minCardNumberLen {
		return fmt.Errorf("card number must be at least %d digits", minCardNumberLen)
	}

	// No same-day or past bookings.
	earliest, err := time.Parse(dateLayout, w.tomorrow())
	if err != nil {
		return err
	}
	for _, item := range w.items {
		reserved, err := time.Parse(dateLayout, item.ReservationDate)
		if err != nil {
			return fmt.Errorf("invalid reservation date for %s: %w", item.Title, err)
		}
		if reserved.Before(earliest) {
			return fmt.Errorf("reservation date for %s must be tomorrow or later", item.Title)
		}
	}

	return nil
}

// Submit runs ReviewSummary -> Submitting -> Success. Any validation
// or payment failure returns the workflow to ReviewSummary with no
// order persisted.
func (w *Workflow) Submit(ctx context.Context, form BillingForm) (*domain.Order, error) {
	w.mu.Lock()
	if w.state != StateReviewSummary {
		w.mu.Unlock()
		return nil, fmt.Errorf("cannot submit in state %s", w.state)
	}

	if err := w.validate(form); err != nil {
		w.lastErr = err
		w.mu.Unlock()
		return nil, err
	}

	user := w.session.Current()
	if user == nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("checkout requires a logged-in user")
	}

	items := make([]domain.OrderItem, len(w.items))
	copy(items, w.items)
	total := domain.Total(domain.Subtotal(items))
	fromFavorites := w.fromFavorites

	w.state = StateSubmitting
	w.mu.Unlock()

	result, err := w.gateway.Charge(ctx, ChargeRequest{
		Amount:      total,
		Currency:    "usd",
		CardNumber:  form.CardNumber,
		CardName:    form.CardName,
		ExpiryDate:  form.ExpiryDate,
		CVV:         form.CVV,
		Description: fmt.Sprintf("MakeADate booking (%d items)", len(items)),
		Email:       form.Email,
	})
	if err != nil {
		w.fail(fmt.Errorf("payment failed: %w", err))
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	order, err := w.orders.Create(orders.CreateOrderInput{
		UserID:      user.ID,
		Items:       items,
		TotalAmount: total,
		PaymentDetails: domain.PaymentDetails{
			CardLastFour: result.CardLastFour,
			PaymentDate:  result.PaidAt,
		},
		BillingInfo: domain.BillingInfo{
			FullName: form.FullName,
			Email:    form.Email,
			Address:  form.Address,
			City:     form.City,
			ZipCode:  form.ZipCode,
			Country:  form.Country,
		},
	})
	if err != nil {
		w.fail(err)
		return nil, err
	}

	if err := w.eventBus.Publish(ctx, events.OrderCreated, events.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		ItemCount:   len(order.Items),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish order event", "error", err, "order_id", order.ID)
	}

	// Only a checkout launched from the favorites view empties it.
	if fromFavorites {
		if err := w.favorites.Clear(); err != nil {
			// The order exists; a stale cart is recoverable.
			w.mu.Lock()
			w.lastErr = err
			w.mu.Unlock()
		}
	}

	w.mu.Lock()
	w.state = StateSuccess
	w.mu.Unlock()
	return order, nil
}

func (w *Workflow) fail(err error) {
	w.mu.Lock()
	w.lastErr = err
	w.state = StateReviewSummary
	w.mu.Unlock()
}

// Reset returns the workflow to Idle, e.g. after the post-success
// redirect to the profile.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateIdle
	w.items = nil
	w.fromFavorites = false
	w.lastErr = nil
}
