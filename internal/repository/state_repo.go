package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// Key names one persisted blob. The first four are the keys the till UI has always used.
type Key string

const (
	KeyProducts     Key = "products"
	KeyTransactions Key = "transactions"
	KeyStoreProfile Key = "storeProfile"
	KeyTheme        Key = "theme"
	KeyVoided       Key = "voidedTransactions"
)

// AllKeys lists every blob the state is made of.
var AllKeys = []Key{KeyProducts, KeyTransactions, KeyStoreProfile, KeyTheme, KeyVoided}

// Snapshot is the whole persisted state of the store.
// Transactions are ordered newest first.
type Snapshot struct {
	Products     []model.Product
	Transactions []model.Transaction
	Profile      model.StoreProfile
	Theme        model.Theme
	Voided       []model.VoidRecord
}

// Clone deep-copies the slices so a unit of work can mutate freely.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Products:     append([]model.Product{}, s.Products...),
		Transactions: make([]model.Transaction, 0, len(s.Transactions)),
		Profile:      s.Profile,
		Theme:        s.Theme,
		Voided:       append([]model.VoidRecord{}, s.Voided...),
	}
	for _, tx := range s.Transactions {
		c.Transactions = append(c.Transactions, tx.Clone())
	}
	return c
}

// StateRepository loads and saves the typed state on top of a BlobStore.
type StateRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Save writes only the listed keys, atomically.
	Save(ctx context.Context, snap *Snapshot, keys ...Key) error
	Ping(ctx context.Context) error
}

type stateRepo struct{ store BlobStore }

func NewStateRepository(store BlobStore) StateRepository { return &stateRepo{store: store} }

func (r *stateRepo) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Products:     []model.Product{},
		Transactions: []model.Transaction{},
		Profile:      model.DefaultStoreProfile(),
		Theme:        model.ThemeDark,
		Voided:       []model.VoidRecord{},
	}
	targets := map[Key]interface{}{
		KeyProducts:     &snap.Products,
		KeyTransactions: &snap.Transactions,
		KeyStoreProfile: &snap.Profile,
		KeyVoided:       &snap.Voided,
	}
	for key, dest := range targets {
		raw, err := r.store.Get(ctx, string(key))
		if errors.Is(err, ErrBlobNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}

	// theme is stored as a bare string, not JSON
	raw, err := r.store.Get(ctx, string(KeyTheme))
	switch {
	case err == nil:
		if t := model.Theme(raw); t.Valid() {
			snap.Theme = t
		}
	case !errors.Is(err, ErrBlobNotFound):
		return nil, fmt.Errorf("load %s: %w", KeyTheme, err)
	}

	// a stored JSON null decodes to a nil slice
	if snap.Products == nil {
		snap.Products = []model.Product{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []model.Transaction{}
	}
	if snap.Voided == nil {
		snap.Voided = []model.VoidRecord{}
	}
	return snap, nil
}

func (r *stateRepo) Save(ctx context.Context, snap *Snapshot, keys ...Key) error {
	blobs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var (
			raw []byte
			err error
		)
		switch key {
		case KeyProducts:
			raw, err = json.Marshal(snap.Products)
		case KeyTransactions:
			raw, err = json.Marshal(snap.Transactions)
		case KeyStoreProfile:
			raw, err = json.Marshal(snap.Profile)
		case KeyVoided:
			raw, err = json.Marshal(snap.Voided)
		case KeyTheme:
			raw = []byte(snap.Theme)
		default:
			return fmt.Errorf("unknown state key %q", key)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		blobs[string(key)] = raw
	}
	return r.store.PutMany(ctx, blobs)
}

func (r *stateRepo) Ping(ctx context.Context) error { return r.store.Ping(ctx) }
