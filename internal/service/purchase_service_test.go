package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"
	"github.com/Guru6163/hotspot-sarees/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubStockRepo is an in-memory StockRepository. DecrementTx enforces the
// same quantity floor the SQL UPDATE does, so concurrent callers can never
// drive a quantity negative.
type stubStockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.StockItem

	nextSeq int                 // NextCodeSequence result; 0 means 1
	refs    map[uuid.UUID]int64 // CountPurchaseRefs per item
}

func newStubStockRepo(items ...*model.StockItem) *stubStockRepo {
	r := &stubStockRepo{items: make(map[uuid.UUID]*model.StockItem)}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = item
	}
	return r
}

func (r *stubStockRepo) Create(_ context.Context, item *model.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubStockRepo) FindByCode(_ context.Context, code string) (*model.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.HumanCode == code {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStockRepo) List(_ context.Context, _ dto.StockFilter) ([]model.StockItem, int64, error) {
	return nil, 0, nil
}

func (r *stubStockRepo) Update(_ context.Context, item *model.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *stubStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *stubStockRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Quantity+delta < 0 {
		return gorm.ErrRecordNotFound
	}
	item.Quantity += delta
	return nil
}

func (r *stubStockRepo) NextCodeSequence(_ context.Context, _ string) (int, error) {
	if r.nextSeq > 0 {
		return r.nextSeq, nil
	}
	return 1, nil
}

func (r *stubStockRepo) CountPurchaseRefs(_ context.Context, id uuid.UUID) (int64, error) {
	return r.refs[id], nil
}

func (r *stubStockRepo) FindForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StockItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubStockRepo) DecrementTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Quantity < qty {
		return fmt.Errorf("stock row %s changed during decrement", id)
	}
	item.Quantity -= qty
	return nil
}

func (r *stubStockRepo) quantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	require.True(t, ok)
	return item.Quantity
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// stubPurchaseRepo emulates the unique index on invoice_number: CreateTx
// fails with a 23505 when the candidate number is already stored.
type stubPurchaseRepo struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]*model.Purchase
	invoices  map[string]bool
	creates   int

	// staleCounts, when non-empty, overrides CountCreatedBetweenTx once per
	// entry — simulates a racing checkout that read the same count.
	staleCounts []int64

	// sequentialCounts hands every caller a fresh count, emulating a
	// serializable read view. The stub has no rollback, so concurrency
	// tests use this to keep invoice collisions out of the picture.
	sequentialCounts bool
	seq              int64

	// createErr, when set, fails every CreateTx with it.
	createErr error
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{
		purchases: make(map[uuid.UUID]*model.Purchase),
		invoices:  make(map[string]bool),
	}
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

func (r *stubPurchaseRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if r.invoices[p.InvoiceNumber] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_purchases_invoice_number"}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.invoices[p.InvoiceNumber] = true
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, _ dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) CountCreatedBetweenTx(_ *gorm.DB, _, _ time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.staleCounts) > 0 {
		count := r.staleCounts[0]
		r.staleCounts = r.staleCounts[1:]
		return count, nil
	}
	if r.sequentialCounts {
		count := r.seq
		r.seq++
		return count, nil
	}
	return int64(len(r.purchases)), nil
}

// seedInvoice records an already-committed purchase so both the unique index
// emulation and the day count see it.
func (r *stubPurchaseRepo) seedInvoice(invoice string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &model.Purchase{ID: uuid.New(), InvoiceNumber: invoice, CreatedAt: time.Now()}
	r.invoices[invoice] = true
	r.purchases[p.ID] = p
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

var testClock = func() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
}

func newTestService(purchases *stubPurchaseRepo, stocks *stubStockRepo) *purchaseService {
	svc := NewPurchaseService(purchases, stocks, nil, 30*time.Second, 3).(*purchaseService)
	svc.now = testClock
	return svc
}

func price(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func line(id uuid.UUID, qty int, unit float64) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{
		StockID:    id.String(),
		Quantity:   qty,
		UnitPrice:  price(unit),
		TotalPrice: price(unit * float64(qty)),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCompletePurchaseHappyPath(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Kanchipuram Silk", Category: "Silk", Quantity: 10, MinQuantity: 2}
	itemB := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0002", Name: "Cotton Handloom", Category: "Cotton", Quantity: 5, MinQuantity: 2}
	stocks := newStubStockRepo(itemA, itemB)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:       price(2500),
		DiscountType:   strPtr("percentage"),
		DiscountValue:  decPtr(price(10)),
		DiscountAmount: price(250),
		TaxAmount:      price(0),
		TotalAmount:    price(2250),
		PaymentMethod:  "cash",
		Items: []dto.PurchaseLineRequest{
			line(itemA.ID, 2, 500),
			line(itemB.ID, 1, 1500),
		},
	}

	resp, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "INV-20250101-0001", resp.InvoiceNumber)
	assert.Equal(t, "Walk-in Customer", resp.CustomerName)
	assert.True(t, resp.TotalAmount.Equal(price(2250)))
	assert.Equal(t, 8, stocks.quantity(t, itemA.ID))
	assert.Equal(t, 4, stocks.quantity(t, itemB.ID))
	assert.Len(t, resp.Items, 2)
	assert.Empty(t, resp.Payments)
}

func TestCompletePurchaseInsufficientStock(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 1}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(1500),
		TotalAmount:   price(1500),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 3, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, itemA.ID, insufficient.StockItemID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)
	// Atomicity: nothing decremented, nothing created.
	assert.Equal(t, 1, stocks.quantity(t, itemA.ID))
	assert.Empty(t, purchases.purchases)
}

func TestCompletePurchaseStockItemNotFound(t *testing.T) {
	stocks := newStubStockRepo()
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	missing := uuid.New()
	req := dto.CompletePurchaseRequest{
		Subtotal:      price(500),
		TotalAmount:   price(500),
		PaymentMethod: "card",
		Items:         []dto.PurchaseLineRequest{line(missing, 1, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	var notFound *StockItemNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.StockItemID)
	assert.Empty(t, purchases.purchases)
}

func TestCompletePurchaseSplitPaymentMismatch(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:       price(1000),
		TotalAmount:    price(1000),
		PaymentMethod:  "split",
		IsSplitPayment: true,
		SplitPayments: []dto.SplitPaymentRequest{
			{PaymentMethod: "cash", Amount: price(400)},
			{PaymentMethod: "card", Amount: price(500)},
		},
		Items: []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	var mismatch *SplitPaymentMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Expected.Equal(price(1000)))
	assert.True(t, mismatch.Actual.Equal(price(900)))
	// Fails before any transaction: no create attempts at all.
	assert.Equal(t, 0, purchases.creates)
	assert.Equal(t, 10, stocks.quantity(t, itemA.ID))
}

func TestCompletePurchaseSplitPaymentConserved(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:       price(1000),
		TotalAmount:    price(1000),
		PaymentMethod:  "split",
		IsSplitPayment: true,
		SplitPayments: []dto.SplitPaymentRequest{
			{PaymentMethod: "cash", Amount: price(400)},
			{PaymentMethod: "upi", Amount: price(600)},
		},
		Items: []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
	}

	resp, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Payments, 2)
	sum := decimal.Zero
	for _, p := range resp.Payments {
		sum = sum.Add(p.Amount)
	}
	assert.True(t, sum.Equal(resp.TotalAmount))
}

func TestCompletePurchaseMergesDuplicateLines(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 4, MinQuantity: 0}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	// Two separate lines for the same item, demand 4 total against stock 4.
	req := dto.CompletePurchaseRequest{
		Subtotal:      price(2000),
		TotalAmount:   price(2000),
		PaymentMethod: "upi",
		Items: []dto.PurchaseLineRequest{
			line(itemA.ID, 2, 500),
			line(itemA.ID, 2, 500),
		},
	}

	resp, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, stocks.quantity(t, itemA.ID))
	// Both original lines survive on the purchase record.
	assert.Len(t, resp.Items, 2)
}

func TestCompletePurchaseDuplicateLinesOversellRejected(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 3}
	stocks := newStubStockRepo(itemA)
	svc := newTestService(newStubPurchaseRepo(), stocks)

	// Each line alone fits, merged demand (4) does not.
	req := dto.CompletePurchaseRequest{
		Subtotal:      price(2000),
		TotalAmount:   price(2000),
		PaymentMethod: "cash",
		Items: []dto.PurchaseLineRequest{
			line(itemA.ID, 2, 500),
			line(itemA.ID, 2, 500),
		},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Equal(t, 3, stocks.quantity(t, itemA.ID))
}

func TestCompletePurchaseRetriesInvoiceCollision(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	// A racing checkout already took INV-20250101-0001, but our first count
	// reads stale 0 — the classic read-then-write race.
	purchases.seedInvoice("INV-20250101-0001")
	purchases.staleCounts = []int64{0}
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(500),
		TotalAmount:   price(500),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
	}

	resp, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "INV-20250101-0002", resp.InvoiceNumber)
	assert.Equal(t, 2, purchases.creates) // first attempt collided, second won
}

func TestCompletePurchaseInvoiceRetriesExhausted(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	purchases.invoices["INV-20250101-0001"] = true
	// Every attempt reads the same stale count and collides.
	purchases.staleCounts = []int64{0, 0, 0}
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(500),
		TotalAmount:   price(500),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	require.ErrorIs(t, err, ErrInvoiceAllocationFailed)
	assert.Equal(t, 3, purchases.creates)
}

func TestCompletePurchaseSequenceExhausted(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	purchases.staleCounts = []int64{9999}
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(500),
		TotalAmount:   price(500),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	require.ErrorIs(t, err, ErrInvoiceSequenceExhausted)
}

func TestCompletePurchaseNotIdempotent(t *testing.T) {
	// Double submit is documented behavior: two purchases, double decrement.
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(1000),
		TotalAmount:   price(1000),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
	}

	first, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.CompletePurchase(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, 6, stocks.quantity(t, itemA.ID))
	assert.Len(t, purchases.purchases, 2)
}

func TestCompletePurchaseValidationFailures(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}

	cases := []struct {
		name string
		req  dto.CompletePurchaseRequest
	}{
		{
			name: "empty items",
			req: dto.CompletePurchaseRequest{
				Subtotal: price(0), TotalAmount: price(0), PaymentMethod: "cash",
			},
		},
		{
			name: "total inconsistent with subtotal",
			req: dto.CompletePurchaseRequest{
				Subtotal: price(1000), TotalAmount: price(900), PaymentMethod: "cash",
				Items: []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
			},
		},
		{
			name: "discount exceeds subtotal",
			req: dto.CompletePurchaseRequest{
				Subtotal: price(1000), DiscountAmount: price(1500), TotalAmount: price(0), PaymentMethod: "cash",
				Items: []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
			},
		},
		{
			name: "split payments on non-split purchase",
			req: dto.CompletePurchaseRequest{
				Subtotal: price(1000), TotalAmount: price(1000), PaymentMethod: "cash",
				SplitPayments: []dto.SplitPaymentRequest{{PaymentMethod: "cash", Amount: price(1000)}},
				Items:         []dto.PurchaseLineRequest{line(itemA.ID, 2, 500)},
			},
		},
		{
			name: "line total does not match",
			req: dto.CompletePurchaseRequest{
				Subtotal: price(999), TotalAmount: price(999), PaymentMethod: "cash",
				Items: []dto.PurchaseLineRequest{{
					StockID: itemA.ID.String(), Quantity: 2, UnitPrice: price(500), TotalPrice: price(999),
				}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stocks := newStubStockRepo(itemA)
			purchases := newStubPurchaseRepo()
			svc := newTestService(purchases, stocks)

			_, err := svc.CompletePurchase(context.Background(), tc.req)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation, "expected validation error")
			assert.Equal(t, 0, purchases.creates)
		})
	}
}

func TestCompletePurchaseConcurrentNoOversell(t *testing.T) {
	const initial = 10
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: initial}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	purchases.sequentialCounts = true
	svc := newTestService(purchases, stocks)

	const callers = 20
	var wg sync.WaitGroup
	var successes int64
	var successMu sync.Mutex

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := dto.CompletePurchaseRequest{
				Subtotal:      price(500),
				TotalAmount:   price(500),
				PaymentMethod: "cash",
				Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
			}
			if _, err := svc.CompletePurchase(context.Background(), req); err == nil {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	final := stocks.quantity(t, itemA.ID)
	assert.GreaterOrEqual(t, final, 0, "quantity must never go negative")
	assert.Equal(t, initial-int(successes), final, "every committed sale decrements exactly once")
	assert.LessOrEqual(t, successes, int64(initial), "committed decrements never exceed initial stock")
}

func TestCompletePurchaseInvoiceUniquenessUnderConcurrency(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 1000}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	purchases.sequentialCounts = true
	svc := newTestService(purchases, stocks)

	const callers = 25
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := dto.CompletePurchaseRequest{
				Subtotal:      price(500),
				TotalAmount:   price(500),
				PaymentMethod: "cash",
				Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
			}
			_, _ = svc.CompletePurchase(context.Background(), req)
		}()
	}
	wg.Wait()

	purchases.mu.Lock()
	defer purchases.mu.Unlock()
	seen := make(map[string]bool)
	for _, p := range purchases.purchases {
		assert.False(t, seen[p.InvoiceNumber], "duplicate invoice number %s", p.InvoiceNumber)
		seen[p.InvoiceNumber] = true
	}
}

func TestCompletePurchaseTransactionFailureWrapped(t *testing.T) {
	itemA := &model.StockItem{ID: uuid.New(), HumanCode: "HS-0001", Name: "Silk", Category: "Silk", Quantity: 10}
	stocks := newStubStockRepo(itemA)
	purchases := newStubPurchaseRepo()
	cause := errors.New("connection reset by peer")
	purchases.createErr = cause
	svc := newTestService(purchases, stocks)

	req := dto.CompletePurchaseRequest{
		Subtotal:      price(500),
		TotalAmount:   price(500),
		PaymentMethod: "cash",
		Items:         []dto.PurchaseLineRequest{line(itemA.ID, 1, 500)},
	}

	_, err := svc.CompletePurchase(context.Background(), req)
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.ErrorIs(t, err, cause)
	// Infra errors do not burn invoice retries.
	assert.Equal(t, 1, purchases.creates)
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
