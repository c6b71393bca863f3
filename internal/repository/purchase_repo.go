package repository

import (
	"context"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)

	// CountCreatedBetweenTx counts purchases inside the transaction's read
	// view — the invoice allocator derives its candidate sequence from it.
	CountCreatedBetweenTx(tx *gorm.DB, from, to time.Time) (int64, error)

	// DB exposes the root handle so the service layer can open transactions.
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.StockItem").
		Preload("Payments").
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})

	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.Method != "" {
		q = q.Where("payment_method = ?", filter.Method)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.StockItem").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error

	return purchases, total, err
}

func (r *purchaseRepo) CountCreatedBetweenTx(tx *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := tx.Model(&model.Purchase{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
