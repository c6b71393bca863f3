package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"
	"github.com/Guru6163/hotspot-sarees/internal/repository"
	"github.com/Guru6163/hotspot-sarees/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultCustomerName = "Walk-in Customer"

// amountTolerance absorbs client-side float rounding: 0.01 currency units.
var amountTolerance = decimal.New(1, -2)

type PurchaseService interface {
	CompletePurchase(ctx context.Context, req dto.CompletePurchaseRequest) (*dto.PurchaseResponse, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	repo       repository.PurchaseRepository
	stockRepo  repository.StockRepository
	dispatcher *worker.Dispatcher
	txTimeout  time.Duration
	attempts   int
	now        func() time.Time // injected clock; invoice day windows derive from it
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	stockRepo repository.StockRepository,
	dispatcher *worker.Dispatcher,
	txTimeout time.Duration,
	invoiceRetryAttempts int,
) PurchaseService {
	if invoiceRetryAttempts < 1 {
		invoiceRetryAttempts = 3
	}
	if txTimeout <= 0 {
		txTimeout = 30 * time.Second
	}
	return &purchaseService{
		repo:       repo,
		stockRepo:  stockRepo,
		dispatcher: dispatcher,
		txTimeout:  txTimeout,
		attempts:   invoiceRetryAttempts,
		now:        time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CompletePurchase ─────────────────────────────────────────────────────────
// The checkout transaction:
//   1. Validate the request shape and money conservation (fail-fast, no tx)
//   2. Merge duplicate cart lines into per-item demand
//   3. BEGIN TX: lock stock rows, check availability, decrement,
//      allocate invoice number, insert purchase + items + payments
//   4. COMMIT — retry the whole attempt on an invoice-number collision
//   5. (async) dispatch low-stock alert for items at/below minimum
//
// Deliberately NOT idempotent: two identical calls create two purchases and
// decrement stock twice. The UI guards against double submission.

func (s *purchaseService) CompletePurchase(ctx context.Context, req dto.CompletePurchaseRequest) (*dto.PurchaseResponse, error) {
	if req.CustomerName == "" {
		req.CustomerName = defaultCustomerName
	}
	if err := validatePurchaseRequest(req); err != nil {
		return nil, err
	}

	demand, lockOrder, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var purchase model.Purchase
	var lowStock []worker.LowStockItem

	for attempt := 1; ; attempt++ {
		purchase = model.Purchase{}
		lowStock = lowStock[:0]

		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			// Lock and batch-read every referenced stock row.
			rows, err := s.stockRepo.FindForUpdateTx(tx, lockOrder)
			if err != nil {
				return err
			}
			byID := make(map[uuid.UUID]*model.StockItem, len(rows))
			for i := range rows {
				byID[rows[i].ID] = &rows[i]
			}

			// All-or-nothing availability check over the merged demand.
			for _, id := range lockOrder {
				item, ok := byID[id]
				if !ok {
					return &StockItemNotFoundError{StockItemID: id}
				}
				if item.Quantity < demand[id] {
					return &InsufficientStockError{
						StockItemID: id,
						HumanCode:   item.HumanCode,
						Available:   item.Quantity,
						Requested:   demand[id],
					}
				}
			}

			for _, id := range lockOrder {
				if err := s.stockRepo.DecrementTx(tx, id, demand[id]); err != nil {
					return err
				}
			}

			// Candidate invoice number from the transaction's read view. The
			// unique index on invoice_number is what actually guarantees
			// uniqueness; a collision aborts the tx and we retry from scratch.
			now := s.now()
			from, to := dayWindow(now)
			count, err := s.repo.CountCreatedBetweenTx(tx, from, to)
			if err != nil {
				return err
			}
			invoice, err := invoiceNumber(now, count)
			if err != nil {
				return err
			}

			purchase = buildPurchase(req, invoice)
			if err := s.repo.CreateTx(ctx, tx, &purchase); err != nil {
				return err
			}

			for _, id := range lockOrder {
				item := byID[id]
				remaining := item.Quantity - demand[id]
				if remaining <= item.MinQuantity {
					lowStock = append(lowStock, worker.LowStockItem{
						HumanCode: item.HumanCode,
						Name:      item.Name,
						Remaining: remaining,
						Minimum:   item.MinQuantity,
					})
				}
			}
			return nil
		})

		if txErr == nil {
			break
		}
		if isUniqueViolation(txErr) {
			if attempt >= s.attempts {
				return nil, ErrInvoiceAllocationFailed
			}
			continue
		}
		if isBusinessError(txErr) {
			return nil, txErr
		}
		return nil, &TransactionError{Err: txErr}
	}

	// Best-effort async alert — never fails the committed purchase.
	if s.dispatcher != nil && len(lowStock) > 0 {
		_ = s.dispatcher.EnqueueLowStockAlert(context.WithoutCancel(ctx), worker.LowStockAlertPayload{
			InvoiceNumber: purchase.InvoiceNumber,
			Items:         lowStock,
		})
	}

	// Re-read for the joined stock display fields; fall back to what we have.
	if full, err := s.repo.FindByID(ctx, purchase.ID); err == nil {
		return purchaseToResponse(full), nil
	}
	return purchaseToResponse(&purchase), nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(p), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		data = append(data, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Validation ───────────────────────────────────────────────────────────────

func validatePurchaseRequest(req dto.CompletePurchaseRequest) error {
	if len(req.Items) == 0 {
		return &ValidationError{Msg: "items must not be empty"}
	}

	lineSum := decimal.Zero
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return &ValidationError{Msg: "item quantity must be positive"}
		}
		if !line.UnitPrice.IsPositive() {
			return &ValidationError{Msg: "item unit price must be positive"}
		}
		expected := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if expected.Sub(line.TotalPrice).Abs().GreaterThan(amountTolerance) {
			return &ValidationError{Msg: "item total does not match quantity × unit price"}
		}
		lineSum = lineSum.Add(line.TotalPrice)
	}

	if req.Subtotal.IsNegative() || req.DiscountAmount.IsNegative() ||
		req.TaxAmount.IsNegative() || req.TotalAmount.IsNegative() {
		return &ValidationError{Msg: "monetary amounts must be non-negative"}
	}
	if lineSum.Sub(req.Subtotal).Abs().GreaterThan(amountTolerance) {
		return &ValidationError{Msg: "subtotal does not match the sum of line totals"}
	}
	if req.DiscountAmount.GreaterThan(req.Subtotal) {
		return &ValidationError{Msg: "discount exceeds subtotal"}
	}
	expectedTotal := req.Subtotal.Sub(req.DiscountAmount).Add(req.TaxAmount)
	if expectedTotal.Sub(req.TotalAmount).Abs().GreaterThan(amountTolerance) {
		return &ValidationError{Msg: "total does not equal subtotal - discount + tax"}
	}

	split := req.IsSplitPayment || req.PaymentMethod == "split"
	if split {
		if len(req.SplitPayments) == 0 {
			return &ValidationError{Msg: "split payment requires at least one payment entry"}
		}
		sum := decimal.Zero
		for _, p := range req.SplitPayments {
			if !p.Amount.IsPositive() {
				return &ValidationError{Msg: "split payment amounts must be positive"}
			}
			sum = sum.Add(p.Amount)
		}
		if sum.Sub(req.TotalAmount).Abs().GreaterThan(amountTolerance) {
			return &SplitPaymentMismatchError{Expected: req.TotalAmount, Actual: sum}
		}
	} else if len(req.SplitPayments) > 0 {
		return &ValidationError{Msg: "splitPayments present on a non-split purchase"}
	}

	return nil
}

// mergeLines sums duplicate stock references so the availability check sees
// true demand — two lines of 2 each must be checked as 4, not 2 twice.
// The returned order is sorted so row locks are always taken in the same
// sequence.
func mergeLines(lines []dto.PurchaseLineRequest) (map[uuid.UUID]int, []uuid.UUID, error) {
	demand := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.StockID)
		if err != nil {
			return nil, nil, &ValidationError{Msg: "invalid stockId: " + line.StockID}
		}
		demand[id] += line.Quantity
	}
	order := make([]uuid.UUID, 0, len(demand))
	for id := range demand {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })
	return demand, order, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func buildPurchase(req dto.CompletePurchaseRequest, invoice string) model.Purchase {
	p := model.Purchase{
		InvoiceNumber:  invoice,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Notes:          req.Notes,
		Subtotal:       req.Subtotal,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		DiscountAmount: req.DiscountAmount,
		TaxAmount:      req.TaxAmount,
		TotalAmount:    req.TotalAmount,
		PaymentMethod:  req.PaymentMethod,
		IsSplitPayment: req.IsSplitPayment || req.PaymentMethod == "split",
	}
	for _, line := range req.Items {
		id, _ := uuid.Parse(line.StockID)
		p.Items = append(p.Items, model.PurchaseItem{
			StockItemID: id,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		})
	}
	if p.IsSplitPayment {
		for _, sp := range req.SplitPayments {
			p.Payments = append(p.Payments, model.Payment{
				Method: sp.PaymentMethod,
				Amount: sp.Amount,
				Status: "completed",
			})
		}
	}
	return p
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		resp := dto.PurchaseItemResponse{
			StockID:    item.StockItemID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.StockItem != nil {
			resp.HumanCode = item.StockItem.HumanCode
			resp.Name = item.StockItem.Name
			resp.Category = item.StockItem.Category
		}
		items = append(items, resp)
	}
	payments := make([]dto.PaymentResponse, 0, len(p.Payments))
	for _, pay := range p.Payments {
		payments = append(payments, dto.PaymentResponse{
			PaymentMethod: pay.Method,
			Amount:        pay.Amount,
			Status:        pay.Status,
		})
	}
	return &dto.PurchaseResponse{
		ID:             p.ID.String(),
		InvoiceNumber:  p.InvoiceNumber,
		CustomerName:   p.CustomerName,
		CustomerPhone:  p.CustomerPhone,
		CustomerEmail:  p.CustomerEmail,
		Notes:          p.Notes,
		Subtotal:       p.Subtotal,
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		DiscountAmount: p.DiscountAmount,
		TaxAmount:      p.TaxAmount,
		TotalAmount:    p.TotalAmount,
		PaymentMethod:  p.PaymentMethod,
		IsSplitPayment: p.IsSplitPayment,
		Items:          items,
		Payments:       payments,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isBusinessError(err error) bool {
	var notFound *StockItemNotFoundError
	var insufficient *InsufficientStockError
	return errors.As(err, &notFound) ||
		errors.As(err, &insufficient) ||
		errors.Is(err, ErrInvoiceSequenceExhausted)
}
