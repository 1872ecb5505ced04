package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// ReceiptQueue accepts receipt jobs for committed sales.
// An empty email means the receipt is only rendered and stored.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, transactionID, email string) error
}

type CheckoutService interface {
	Begin(ctx context.Context, cartID string, method model.PaymentMethod) (dto.CartResponse, error)
	Cancel(ctx context.Context, cartID string) (dto.CartResponse, error)
	Confirm(ctx context.Context, cartID string, req dto.ConfirmPaymentRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	state    *State
	carts    *CartStore
	receipts ReceiptQueue // nil disables receipt jobs
	delay    time.Duration
	sleep    func(time.Duration)
	now      func() time.Time
}

// NewCheckoutService wires the checkout engine. delay is the simulated
// payment processing time applied to every Confirm.
func NewCheckoutService(state *State, carts *CartStore, receipts ReceiptQueue, delay time.Duration) CheckoutService {
	return &checkoutService{
		state:    state,
		carts:    carts,
		receipts: receipts,
		delay:    delay,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// ── Begin / Cancel ────────────────────────────────────────────────────────────

func (s *checkoutService) Begin(_ context.Context, cartID string, method model.PaymentMethod) (dto.CartResponse, error) {
	if !method.Valid() {
		return dto.CartResponse{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.lookup(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	if c.State != model.CheckoutIdle {
		return dto.CartResponse{}, fmt.Errorf("%w: checkout already started", ErrInvalidState)
	}
	if len(c.Items) == 0 {
		return dto.CartResponse{}, ErrEmptyCart
	}
	c.State = model.CheckoutAwaitingPayment
	c.PaymentMethod = method
	c.UpdatedAt = s.now().UTC()
	return toCartResponse(c), nil
}

// Cancel returns the cart to Idle with its contents untouched.
func (s *checkoutService) Cancel(_ context.Context, cartID string) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.lookup(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	if c.State != model.CheckoutAwaitingPayment {
		return dto.CartResponse{}, fmt.Errorf("%w: no checkout in progress", ErrInvalidState)
	}
	if c.Processing {
		return dto.CartResponse{}, ErrPaymentProcessing
	}
	c.State = model.CheckoutIdle
	c.PaymentMethod = ""
	c.UpdatedAt = s.now().UTC()
	return toCartResponse(c), nil
}

// ── Confirm ───────────────────────────────────────────────────────────────────
//   1. Check state and cash sufficiency, mark the cart as processing
//   2. Wait the simulated processing delay (not cancellable)
//   3. Unit of work: re-check stock, decrement it, prepend the transaction,
//      save products + transactions atomically
//   4. Empty the cart, back to Idle
//   5. (async) enqueue the receipt job

func (s *checkoutService) Confirm(ctx context.Context, cartID string, req dto.ConfirmPaymentRequest) (*dto.CheckoutResponse, error) {
	// 1.
	s.carts.mu.Lock()
	c, err := s.carts.lookup(cartID)
	if err != nil {
		s.carts.mu.Unlock()
		return nil, err
	}
	if c.State != model.CheckoutAwaitingPayment {
		s.carts.mu.Unlock()
		return nil, fmt.Errorf("%w: checkout not started", ErrInvalidState)
	}
	if c.Processing {
		s.carts.mu.Unlock()
		return nil, ErrPaymentProcessing
	}
	total := c.Total()
	method := c.PaymentMethod
	amountGiven := total
	if method == model.PaymentCash {
		if req.AmountGiven < total {
			s.carts.mu.Unlock()
			return nil, fmt.Errorf("%w: given %d, total %d", ErrInsufficientPayment, req.AmountGiven, total)
		}
		amountGiven = req.AmountGiven
	}
	items := append([]model.CartItem{}, c.Items...)
	c.Processing = true
	s.carts.mu.Unlock()

	// Payment is already taken; a client hanging up from here on must not
	// drop the sale.
	ctx = context.WithoutCancel(ctx)

	// 2.
	if s.delay > 0 {
		s.sleep(s.delay)
	}

	// 3.
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = model.DefaultCustomerName
	}
	var tx model.Transaction
	err = s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		for _, item := range items {
			i := indexProduct(next.Products, item.ID)
			if i < 0 {
				return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, item.Name)
			}
			if next.Products[i].Stock < item.Quantity {
				return nil, fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, item.Name, next.Products[i].Stock)
			}
			next.Products[i].Stock -= item.Quantity
		}
		now := s.now().UTC()
		tx = model.Transaction{
			ID:            nextTransactionID(now, next.Transactions),
			Date:          now,
			Total:         total,
			Items:         items,
			PaymentMethod: method,
			CustomerName:  customer,
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			AmountGiven:   amountGiven,
			Change:        amountGiven - total,
		}
		next.Transactions = append([]model.Transaction{tx}, next.Transactions...)
		return []repository.Key{repository.KeyProducts, repository.KeyTransactions}, nil
	})

	// 4.
	s.carts.mu.Lock()
	c.Processing = false
	if err != nil {
		s.carts.mu.Unlock()
		return nil, err
	}
	c.Items = []model.CartItem{}
	c.State = model.CheckoutIdle
	c.PaymentMethod = ""
	c.LastTransactionID = tx.ID
	c.UpdatedAt = tx.Date
	cart := toCartResponse(c)
	s.carts.mu.Unlock()

	log.Info().
		Str("transaction_id", tx.ID).
		Str("payment_method", string(tx.PaymentMethod)).
		Int64("total", tx.Total).
		Int("lines", len(tx.Items)).
		Msg("sale committed")

	// 5.
	queued := false
	if s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, tx.ID, strings.TrimSpace(req.CustomerEmail)); err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("receipt job not queued")
		} else {
			queued = true
		}
	}

	return &dto.CheckoutResponse{
		Transaction:   tx.Clone(),
		Change:        tx.Change,
		ReceiptQueued: queued,
		Cart:          cart,
	}, nil
}

// nextTransactionID formats "TX-" plus the last six digits of the
// millisecond clock. A collision with an existing id gets a "-N" suffix.
func nextTransactionID(now time.Time, existing []model.Transaction) string {
	base := fmt.Sprintf("TX-%06d", now.UnixMilli()%1000000)
	taken := func(id string) bool {
		for _, t := range existing {
			if t.ID == id {
				return true
			}
		}
		return false
	}
	id := base
	for n := 2; taken(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}
