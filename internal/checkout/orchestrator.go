// Package checkout drives a checkout attempt: tokenize the card, create the
// order, then charge it. Each step depends on the previous one, so they
// run strictly in sequence.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/mint-kitchen/internal/cart"
	"github.com/Lixing-Zhang/mint-kitchen/internal/gateway"
	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

var (
	ErrInProgress = errors.New("a checkout is already in progress")
	ErrCompleted  = errors.New("checkout already completed")
	ErrEmptyCart  = errors.New("your cart is empty")
)

const (
	msgOrderFailed   = "Failed to create order"
	msgPaymentFailed = "Payment failed"
	msgFallback      = "Payment failed. Please try again."
)

// Status is the checkout state machine position.
type Status int

const (
	Idle Status = iota
	Processing
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Processing:
		return "processing"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the checkout. PaidAmount, OrderID and ReceiptURL
// are only set on Success; Error only on Error.
type State struct {
	Status     Status
	PaidAmount money.Cents
	OrderID    string
	ReceiptURL string
	Error      string
}

// Gateway is the order/payment API.
type Gateway interface {
	CreateOrder(ctx context.Context, lineItems []models.OrderLineItem, idempotencyKey string) gateway.Result[models.CreateOrderResponse]
	CreatePayment(ctx context.Context, sourceID, orderID string, amount money.Cents, idempotencyKey string) gateway.Result[models.CreatePaymentResponse]
}

// Tokenizer produces a single-use card token. *payment.Widget satisfies it.
type Tokenizer interface {
	Tokenize(ctx context.Context) (string, error)
}

// Orchestrator runs checkout attempts against one cart.
type Orchestrator struct {
	cart   *cart.Store
	gw     Gateway
	log    *slog.Logger
	newKey func() string

	mu          sync.Mutex
	busy        bool
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// New creates an idle orchestrator.
func New(store *cart.Store, gw Gateway, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cart:        store,
		gw:          gw,
		log:         log,
		newKey:      uuid.NewString,
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether a submission is running, including tokenization.
// Repeat submits must stay disabled while it is true.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Subscribe registers fn for every state change and returns a function
// that removes it.
func (o *Orchestrator) Subscribe(fn func(State)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

// Submit runs one checkout attempt and returns the resulting state. The
// returned error is nil only on success. ErrInProgress, ErrCompleted and
// ErrEmptyCart reject the attempt without changing state; any other error
// is the cause of the Error state.
func (o *Orchestrator) Submit(ctx context.Context, tok Tokenizer) (State, error) {
	o.mu.Lock()
	switch {
	case o.busy:
		o.mu.Unlock()
		return o.State(), ErrInProgress
	case o.state.Status == Success:
		st := o.state
		o.mu.Unlock()
		return st, ErrCompleted
	case o.cart.Snapshot().Empty():
		st := o.state
		o.mu.Unlock()
		return st, ErrEmptyCart
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	token, err := tok.Tokenize(ctx)
	if err != nil {
		o.log.Warn("card tokenization failed", "error", err)
		return o.fail(err), err
	}

	// The order is built from the cart as it was when tokenization
	// succeeded; later cart changes do not leak into this attempt.
	snap := o.cart.Snapshot()
	if snap.Empty() {
		return o.fail(ErrEmptyCart), ErrEmptyCart
	}
	o.transition(State{Status: Processing})

	key := o.newKey()
	order := o.gw.CreateOrder(ctx, snap.OrderLineItems(), key)
	if !order.OK() || order.Data.OrderID == "" {
		o.log.Error("checkout order creation failed", "error", order.Err)
		err := orderErr(order.Err)
		return o.fail(err), err
	}

	// Charged once with the client total. An unpaid order is left behind
	// on failure; reconciling those is an operational task.
	payment := o.gw.CreatePayment(ctx, token, order.Data.OrderID, snap.Total, key+":pay")
	if !payment.OK() {
		err := resultErr(payment.Err, msgPaymentFailed)
		o.log.Error("checkout payment failed", "order_id", order.Data.OrderID, "error", err)
		return o.fail(err), err
	}

	st := State{
		Status:     Success,
		PaidAmount: order.Data.TotalMoney.Amount,
		OrderID:    order.Data.OrderID,
		ReceiptURL: payment.Data.ReceiptURL,
	}
	if st.PaidAmount != snap.Total {
		o.log.Warn("server total differs from cart total",
			"order_id", st.OrderID,
			"server_total", st.PaidAmount,
			"cart_total", snap.Total,
		)
	}
	o.transition(st)
	o.cart.Clear()

	o.log.Info("checkout completed", "order_id", st.OrderID, "paid", st.PaidAmount.String())
	return st, nil
}

// Fail records a failure reported outside Submit, such as the payment form
// refusing to load. It has no effect after success.
func (o *Orchestrator) Fail(err error) State {
	o.mu.Lock()
	if o.state.Status == Success {
		st := o.state
		o.mu.Unlock()
		return st
	}
	o.mu.Unlock()
	return o.fail(err)
}

// Reset returns to Idle so a new checkout can begin. It is ignored while a
// submission is running.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	busy := o.busy
	o.mu.Unlock()
	if busy {
		return
	}
	o.transition(State{Status: Idle})
}

func (o *Orchestrator) fail(err error) State {
	msg := msgFallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	st := State{Status: Error, Error: msg}
	o.transition(st)
	return st
}

func (o *Orchestrator) transition(st State) {
	o.mu.Lock()
	o.state = st
	subs := make([]func(State), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func resultErr(err error, fallback string) error {
	if err == nil {
		return errors.New(fallback)
	}
	return err
}

// orderErr is the customer-facing failure for an order that was not
// created. A response without an order id cannot be charged.
func orderErr(err error) error {
	if err == nil || errors.Is(err, gateway.ErrIncompleteResponse) {
		return errors.New(msgOrderFailed)
	}
	return err
}
