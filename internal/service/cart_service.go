package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// CartStore holds the open carts, one per till. Carts are never persisted.
// Shared by CartService and CheckoutService.
//
// Lock order: CartStore.mu may be held while taking the State read lock,
// never the other way round.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*model.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*model.Cart)}
}

// lookup returns the live cart. Caller holds mu.
func (cs *CartStore) lookup(id string) (*model.Cart, error) {
	c, ok := cs.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, id)
	}
	return c, nil
}

// editable returns the live cart if its contents may change. Caller holds mu.
func (cs *CartStore) editable(id string) (*model.Cart, error) {
	c, err := cs.lookup(id)
	if err != nil {
		return nil, err
	}
	if c.State != model.CheckoutIdle {
		return nil, ErrCartFrozen
	}
	return c, nil
}

func toCartResponse(c *model.Cart) dto.CartResponse {
	cp := *c
	cp.Items = append([]model.CartItem{}, c.Items...)
	count := 0
	for _, item := range cp.Items {
		count += item.Quantity
	}
	return dto.CartResponse{
		Cart:      cp,
		ItemCount: count,
		Subtotal:  cp.Subtotal(),
		Tax:       cp.Tax(),
		Total:     cp.Total(),
	}
}

type CartService interface {
	Open(ctx context.Context) dto.CartResponse
	Get(ctx context.Context, cartID string) (dto.CartResponse, error)
	Add(ctx context.Context, cartID, productID string) (dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, delta int) (dto.CartResponse, error)
	Remove(ctx context.Context, cartID, productID string) (dto.CartResponse, error)
	Clear(ctx context.Context, cartID string) (dto.CartResponse, error)
	Discard(ctx context.Context, cartID string) error
}

type cartService struct {
	state *State
	carts *CartStore
	now   func() time.Time
}

func NewCartService(state *State, carts *CartStore) CartService {
	return &cartService{state: state, carts: carts, now: time.Now}
}

// product reads the current catalog entry.
func (s *cartService) product(id string) (p model.Product, ok bool) {
	s.state.read(func(snap *repository.Snapshot) {
		if i := indexProduct(snap.Products, id); i >= 0 {
			p, ok = snap.Products[i], true
		}
	})
	return p, ok
}

func (s *cartService) Open(_ context.Context) dto.CartResponse {
	now := s.now().UTC()
	c := &model.Cart{
		ID:        uuid.NewString(),
		Items:     []model.CartItem{},
		State:     model.CheckoutIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.carts.mu.Lock()
	s.carts.carts[c.ID] = c
	s.carts.mu.Unlock()
	return toCartResponse(c)
}

func (s *cartService) Get(_ context.Context, cartID string) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.lookup(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	return toCartResponse(c), nil
}

// Add puts one unit of productID in the cart. The resulting quantity must
// not exceed the product's current stock.
func (s *cartService) Add(_ context.Context, cartID, productID string) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.editable(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	p, ok := s.product(productID)
	if !ok {
		return dto.CartResponse{}, fmt.Errorf("%w: %s", ErrProductUnavailable, productID)
	}

	i := c.Find(productID)
	qty := 1
	if i >= 0 {
		qty = c.Items[i].Quantity + 1
	}
	if qty > p.Stock {
		return dto.CartResponse{}, fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, p.Name, p.Stock)
	}
	if i >= 0 {
		c.Items[i].Quantity = qty
	} else {
		c.Items = append(c.Items, model.CartItem{Product: p, Quantity: 1})
	}
	c.UpdatedAt = s.now().UTC()
	return toCartResponse(c), nil
}

// UpdateQuantity applies delta to a line. A result below 1, or an increase
// past current stock, leaves the line as it was without an error.
func (s *cartService) UpdateQuantity(_ context.Context, cartID, productID string, delta int) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.editable(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	i := c.Find(productID)
	if i < 0 {
		return toCartResponse(c), nil
	}
	qty := c.Items[i].Quantity + delta
	if qty < 1 {
		return toCartResponse(c), nil
	}
	if delta > 0 {
		p, ok := s.product(productID)
		if !ok || qty > p.Stock {
			return toCartResponse(c), nil
		}
	}
	c.Items[i].Quantity = qty
	c.UpdatedAt = s.now().UTC()
	return toCartResponse(c), nil
}

func (s *cartService) Remove(_ context.Context, cartID, productID string) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.editable(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	if i := c.Find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.UpdatedAt = s.now().UTC()
	}
	return toCartResponse(c), nil
}

func (s *cartService) Clear(_ context.Context, cartID string) (dto.CartResponse, error) {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.editable(cartID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	c.Items = []model.CartItem{}
	c.UpdatedAt = s.now().UTC()
	return toCartResponse(c), nil
}

// Discard drops the cart. Refused while its payment is being processed.
func (s *cartService) Discard(_ context.Context, cartID string) error {
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()
	c, err := s.carts.lookup(cartID)
	if err != nil {
		return err
	}
	if c.Processing {
		return ErrPaymentProcessing
	}
	delete(s.carts.carts, cartID)
	return nil
}
