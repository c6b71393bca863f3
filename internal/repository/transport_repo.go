package repository

import (
	"context"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"

	"gorm.io/gorm"
)

type TransportRepository interface {
	Create(ctx context.Context, rec *model.TransportRecord) error
	List(ctx context.Context, filter dto.TransportFilter) ([]model.TransportRecord, int64, error)
	MonthlySummary(ctx context.Context) ([]dto.TransportMonthSummary, error)
}

type transportRepo struct{ db *gorm.DB }

func NewTransportRepository(db *gorm.DB) TransportRepository { return &transportRepo{db: db} }

func (r *transportRepo) Create(ctx context.Context, rec *model.TransportRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *transportRepo) List(ctx context.Context, filter dto.TransportFilter) ([]model.TransportRecord, int64, error) {
	var records []model.TransportRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TransportRecord{})
	if filter.Month != "" {
		q = q.Where("to_char(date, 'YYYY-MM') = ?", filter.Month)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC").Offset(offset).Limit(filter.Limit).Find(&records).Error
	return records, total, err
}

func (r *transportRepo) MonthlySummary(ctx context.Context) ([]dto.TransportMonthSummary, error) {
	var rows []dto.TransportMonthSummary
	err := r.db.WithContext(ctx).Model(&model.TransportRecord{}).
		Select("to_char(date, 'YYYY-MM') AS month, SUM(cost) AS total_cost, COUNT(*) AS trips").
		Group("to_char(date, 'YYYY-MM')").
		Order("month DESC").
		Scan(&rows).Error
	return rows, err
}
