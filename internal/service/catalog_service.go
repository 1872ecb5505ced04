package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// AllCategories is the category filter value that matches every product.
const AllCategories = "Semua"

// BarcodeNotFoundError is returned by StockIn for an unknown barcode.
// The barcode is kept so the client can offer creating the product.
type BarcodeNotFoundError struct{ Barcode string }

func (e *BarcodeNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBarcodeNotFound, e.Barcode)
}

func (e *BarcodeNotFoundError) Unwrap() error { return ErrBarcodeNotFound }

type CatalogService interface {
	List(ctx context.Context, filter dto.ProductFilter) []model.Product
	Categories(ctx context.Context) []string
	Get(ctx context.Context, id string) (model.Product, bool)
	FindByBarcode(ctx context.Context, barcode string) (model.Product, bool)
	AddProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error)
	// UpdateProduct, DeleteProduct and AdjustStock report found=false for an
	// unknown id and change nothing.
	UpdateProduct(ctx context.Context, id string, req dto.ProductRequest) (*model.Product, bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	AdjustStock(ctx context.Context, id string, delta int) (*model.Product, bool, error)
	StockIn(ctx context.Context, barcode string, qty int) (*model.Product, error)
}

type catalogService struct {
	state *State
	newID func() string
}

func NewCatalogService(state *State) CatalogService {
	return &catalogService{state: state, newID: uuid.NewString}
}

func validateProduct(req dto.ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(req.Category) == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	case req.Price < 0 || req.CostPrice < 0:
		return fmt.Errorf("%w: prices must not be negative", ErrValidation)
	case req.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

func productFromRequest(id string, req dto.ProductRequest) model.Product {
	return model.Product{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Barcode:   strings.TrimSpace(req.Barcode),
		Price:     req.Price,
		CostPrice: req.CostPrice,
		Category:  strings.TrimSpace(req.Category),
		Image:     req.Image,
		Stock:     req.Stock,
	}
}

func indexProduct(products []model.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *catalogService) List(_ context.Context, filter dto.ProductFilter) []model.Product {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)
	allCategories := category == "" || category == AllCategories

	out := []model.Product{}
	s.state.read(func(snap *repository.Snapshot) {
		for _, p := range snap.Products {
			if !allCategories && p.Category != category {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Barcode), search) {
				continue
			}
			out = append(out, p)
		}
	})
	return out
}

func (s *catalogService) Categories(_ context.Context) []string {
	seen := map[string]struct{}{}
	s.state.read(func(snap *repository.Snapshot) {
		for _, p := range snap.Products {
			seen[p.Category] = struct{}{}
		}
	})
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *catalogService) Get(_ context.Context, id string) (p model.Product, ok bool) {
	s.state.read(func(snap *repository.Snapshot) {
		if i := indexProduct(snap.Products, id); i >= 0 {
			p, ok = snap.Products[i], true
		}
	})
	return p, ok
}

// FindByBarcode returns the first product carrying barcode. Barcodes are not unique.
func (s *catalogService) FindByBarcode(_ context.Context, barcode string) (p model.Product, ok bool) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return p, false
	}
	s.state.read(func(snap *repository.Snapshot) {
		for _, candidate := range snap.Products {
			if candidate.Barcode == barcode {
				p, ok = candidate, true
				return
			}
		}
	})
	return p, ok
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (s *catalogService) AddProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	p := productFromRequest(s.newID(), req)
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		next.Products = append(next.Products, p)
		return []repository.Key{repository.KeyProducts}, nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product added")
	return &p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, req dto.ProductRequest) (*model.Product, bool, error) {
	if err := validateProduct(req); err != nil {
		return nil, false, err
	}
	var updated *model.Product
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		i := indexProduct(next.Products, id)
		if i < 0 {
			return nil, nil
		}
		p := productFromRequest(id, req)
		next.Products[i] = p
		updated = &p
		return []repository.Key{repository.KeyProducts}, nil
	})
	if err != nil || updated == nil {
		return nil, false, err
	}
	return updated, true, nil
}

// DeleteProduct leaves historical transactions untouched; they hold snapshots.
func (s *catalogService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		i := indexProduct(next.Products, id)
		if i < 0 {
			return nil, nil
		}
		next.Products = append(next.Products[:i], next.Products[i+1:]...)
		found = true
		return []repository.Key{repository.KeyProducts}, nil
	})
	if err != nil {
		return false, err
	}
	if found {
		log.Info().Str("product_id", id).Msg("product deleted")
	}
	return found, nil
}

// AdjustStock adds delta as given. Sales never reach here; checkout guards
// its own decrements inside the sale's unit of work.
func (s *catalogService) AdjustStock(ctx context.Context, id string, delta int) (*model.Product, bool, error) {
	var updated *model.Product
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		i := indexProduct(next.Products, id)
		if i < 0 {
			return nil, nil
		}
		next.Products[i].Stock += delta
		p := next.Products[i]
		updated = &p
		return []repository.Key{repository.KeyProducts}, nil
	})
	if err != nil || updated == nil {
		return nil, false, err
	}
	return updated, true, nil
}

func (s *catalogService) StockIn(ctx context.Context, barcode string, qty int) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	var updated *model.Product
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		for i := range next.Products {
			if next.Products[i].Barcode == barcode {
				next.Products[i].Stock += qty
				p := next.Products[i]
				updated = &p
				return []repository.Key{repository.KeyProducts}, nil
			}
		}
		return nil, &BarcodeNotFoundError{Barcode: barcode}
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", updated.ID).Int("qty", qty).Int("stock", updated.Stock).Msg("stock in")
	return updated, nil
}
