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

type LedgerService interface {
	// List returns transactions newest first, filtered by id or customer name.
	List(ctx context.Context, filter dto.TransactionFilter) []model.Transaction
	Get(ctx context.Context, id string) (model.Transaction, bool)
	Create(ctx context.Context, req dto.TransactionRequest) (*model.Transaction, error)
	// Update replaces a transaction wholesale. Unknown id: found=false, no change.
	Update(ctx context.Context, id string, req dto.TransactionRequest) (*model.Transaction, bool, error)
	// Delete voids a transaction: it leaves the ledger and every report, and
	// is appended to the void log with reason. Unknown id: false, no change.
	Delete(ctx context.Context, id, reason string) (bool, error)
	ListVoided(ctx context.Context) []model.VoidRecord
	// Snapshot returns all transactions newest first, for reporting.
	Snapshot(ctx context.Context) []model.Transaction
}

type ledgerService struct {
	state *State
	now   func() time.Time
}

func NewLedgerService(state *State) LedgerService {
	return &ledgerService{state: state, now: time.Now}
}

func indexTransaction(txs []model.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ledgerService) List(_ context.Context, filter dto.TransactionFilter) []model.Transaction {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []model.Transaction{}
	s.state.read(func(snap *repository.Snapshot) {
		for _, tx := range snap.Transactions {
			if search != "" &&
				!strings.Contains(strings.ToLower(tx.ID), search) &&
				!strings.Contains(strings.ToLower(tx.CustomerName), search) {
				continue
			}
			out = append(out, tx.Clone())
		}
	})
	return out
}

func (s *ledgerService) Get(_ context.Context, id string) (tx model.Transaction, ok bool) {
	s.state.read(func(snap *repository.Snapshot) {
		if i := indexTransaction(snap.Transactions, id); i >= 0 {
			tx, ok = snap.Transactions[i].Clone(), true
		}
	})
	return tx, ok
}

func (s *ledgerService) Snapshot(_ context.Context) []model.Transaction {
	var out []model.Transaction
	s.state.read(func(snap *repository.Snapshot) {
		out = make([]model.Transaction, 0, len(snap.Transactions))
		for _, tx := range snap.Transactions {
			out = append(out, tx.Clone())
		}
	})
	return out
}

func (s *ledgerService) ListVoided(_ context.Context) []model.VoidRecord {
	var out []model.VoidRecord
	s.state.read(func(snap *repository.Snapshot) {
		out = make([]model.VoidRecord, 0, len(snap.Voided))
		for _, v := range snap.Voided {
			v.Transaction = v.Transaction.Clone()
			out = append(out, v)
		}
	})
	return out
}

// transactionFromRequest applies the manual-entry defaults. The catalog is
// not consulted.
func (s *ledgerService) transactionFromRequest(id string, req dto.TransactionRequest, fallbackDate time.Time) (model.Transaction, error) {
	if !req.PaymentMethod.Valid() {
		return model.Transaction{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if req.Total < 0 || req.AmountGiven < 0 || req.Change < 0 {
		return model.Transaction{}, fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	}
	items := append([]model.CartItem{}, req.Items...)
	for _, item := range items {
		if item.Quantity < 1 {
			return model.Transaction{}, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
	}
	date := fallbackDate
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = model.DefaultCustomerName
	}
	return model.Transaction{
		ID:            id,
		Date:          date,
		Total:         req.Total,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  customer,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		AmountGiven:   req.AmountGiven,
		Change:        req.Change,
	}, nil
}

func (s *ledgerService) Create(ctx context.Context, req dto.TransactionRequest) (*model.Transaction, error) {
	now := s.now().UTC()
	tx, err := s.transactionFromRequest(strings.TrimSpace(req.ID), req, now)
	if err != nil {
		return nil, err
	}
	err = s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		if tx.ID == "" {
			tx.ID = nextTransactionID(now, next.Transactions)
		} else if indexTransaction(next.Transactions, tx.ID) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
		}
		next.Transactions = append([]model.Transaction{tx}, next.Transactions...)
		return []repository.Key{repository.KeyTransactions}, nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("transaction_id", tx.ID).Int64("total", tx.Total).Msg("manual transaction recorded")
	return &tx, nil
}

func (s *ledgerService) Update(ctx context.Context, id string, req dto.TransactionRequest) (*model.Transaction, bool, error) {
	var updated *model.Transaction
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		i := indexTransaction(next.Transactions, id)
		if i < 0 {
			return nil, nil
		}
		tx, err := s.transactionFromRequest(id, req, next.Transactions[i].Date)
		if err != nil {
			return nil, err
		}
		next.Transactions[i] = tx
		updated = &tx
		return []repository.Key{repository.KeyTransactions}, nil
	})
	if err != nil || updated == nil {
		return nil, false, err
	}
	log.Info().Str("transaction_id", id).Msg("transaction edited")
	return updated, true, nil
}

func (s *ledgerService) Delete(ctx context.Context, id, reason string) (bool, error) {
	var voided *model.VoidRecord
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		i := indexTransaction(next.Transactions, id)
		if i < 0 {
			return nil, nil
		}
		rec := model.VoidRecord{
			Transaction: next.Transactions[i],
			Reason:      strings.TrimSpace(reason),
			VoidedAt:    s.now().UTC(),
		}
		next.Transactions = append(next.Transactions[:i], next.Transactions[i+1:]...)
		next.Voided = append(next.Voided, rec)
		voided = &rec
		return []repository.Key{repository.KeyTransactions, repository.KeyVoided}, nil
	})
	if err != nil || voided == nil {
		return false, err
	}
	log.Warn().
		Str("transaction_id", id).
		Int64("total", voided.Transaction.Total).
		Str("reason", voided.Reason).
		Msg("transaction voided")
	return true, nil
}
