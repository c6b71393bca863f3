package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository defines the data access contract for stock items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling unit testing via stubs.
type StockRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	FindByCode(ctx context.Context, code string) (*model.StockItem, error)
	List(ctx context.Context, filter dto.StockFilter) ([]model.StockItem, int64, error)
	Update(ctx context.Context, item *model.StockItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error

	// NextCodeSequence returns 1 + the highest numeric suffix among codes with
	// the given prefix ("HS" → scans "HS-%").
	NextCodeSequence(ctx context.Context, prefix string) (int, error)

	// CountPurchaseRefs reports how many purchase lines reference the item.
	// A referenced item must never be hard-deleted.
	CountPurchaseRefs(ctx context.Context, id uuid.UUID) (int64, error)

	// Used inside the checkout transaction — callers must pass the live tx.
	FindForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.StockItem, error)
	DecrementTx(tx *gorm.DB, id uuid.UUID, qty int) error
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *stockRepo) FindByCode(ctx context.Context, code string) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).Where("human_code = ? AND is_active = true", code).First(&item).Error
	return &item, err
}

func (r *stockRepo) List(ctx context.Context, filter dto.StockFilter) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockItem{})

	switch filter.Active {
	case "false":
		q = q.Where("is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("is_active = true")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR human_code ILIKE ?", pattern, pattern)
	}
	if filter.LowStock {
		q = q.Where("quantity <= min_quantity")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("human_code ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *stockRepo) Update(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StockItem{}, id).Error
}

func (r *stockRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *stockRepo) NextCodeSequence(ctx context.Context, prefix string) (int, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("human_code LIKE ?", prefix+"-%").
		Pluck("human_code", &codes).Error
	if err != nil {
		return 0, err
	}
	max := 0
	for _, code := range codes {
		suffix := strings.TrimPrefix(code, prefix+"-")
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (r *stockRepo) CountPurchaseRefs(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Where("stock_item_id = ?", id).Count(&count).Error
	return count, err
}

// FindForUpdateTx batch-reads the referenced rows with FOR UPDATE row locks.
// Rows are locked in id order so two concurrent checkouts touching the same
// items acquire locks in the same sequence.
func (r *stockRepo) FindForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.StockItem, error) {
	var items []model.StockItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// DecrementTx applies one stock decrement inside the caller's transaction.
// The quantity guard backs up the in-memory availability check; a zero
// row count here means the row changed underneath us.
func (r *stockRepo) DecrementTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.StockItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock row %s changed during decrement", id)
	}
	return nil
}
