package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

var errDiskFull = errors.New("disk full")

// flakyStore wraps the in-memory store and fails writes on demand. Like the
// Redis and Postgres drivers it refuses writes on a cancelled context.
type flakyStore struct {
	repository.BlobStore
	mu     sync.Mutex
	fail   bool
	writes [][]string
}

func (s *flakyStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errDiskFull
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	keys := make([]string, 0, len(blobs))
	for k := range blobs {
		keys = append(keys, k)
	}
	s.writes = append(s.writes, keys)
	return s.BlobStore.PutMany(ctx, blobs)
}

func (s *flakyStore) setFail(fail bool) {
	s.mu.Lock()
	s.fail = fail
	s.mu.Unlock()
}

// stubReceiptQueue records enqueued receipt jobs.
type stubReceiptQueue struct {
	mu   sync.Mutex
	jobs []string
	err  error
}

func (q *stubReceiptQueue) EnqueueReceipt(_ context.Context, transactionID, email string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, transactionID+"|"+email)
	return nil
}

var _ ReceiptQueue = (*stubReceiptQueue)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	store    *flakyStore
	state    *State
	catalog  CatalogService
	carts    CartService
	checkout *checkoutService
	ledger   *ledgerService
	queue    *stubReceiptQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &flakyStore{BlobStore: repository.NewMemoryBlobStore()}
	state, err := NewState(context.Background(), repository.NewStateRepository(store))
	require.NoError(t, err)

	cartStore := NewCartStore()
	queue := &stubReceiptQueue{}
	checkout := NewCheckoutService(state, cartStore, queue, 0).(*checkoutService)
	checkout.now = func() time.Time { return fixedNow }
	ledger := NewLedgerService(state).(*ledgerService)
	ledger.now = func() time.Time { return fixedNow }

	return &fixture{
		store:    store,
		state:    state,
		catalog:  NewCatalogService(state),
		carts:    NewCartService(state, cartStore),
		checkout: checkout,
		ledger:   ledger,
		queue:    queue,
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price, cost int64, stock int) model.Product {
	t.Helper()
	p, err := f.catalog.AddProduct(context.Background(), dto.ProductRequest{
		Name:      name,
		Barcode:   "899" + name,
		Price:     price,
		CostPrice: cost,
		Category:  "Frozen",
		Stock:     stock,
	})
	require.NoError(t, err)
	return *p
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, ok := f.catalog.Get(context.Background(), id)
	require.True(t, ok, "product %s missing", id)
	return p.Stock
}

// reload builds a fresh State from the same store, as a restart would.
func (f *fixture) reload(t *testing.T) *State {
	t.Helper()
	state, err := NewState(context.Background(), repository.NewStateRepository(f.store))
	require.NoError(t, err)
	return state
}
