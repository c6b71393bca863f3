package service

import (
	"context"
	"testing"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransportRepo struct {
	records []model.TransportRecord
	summary []dto.TransportMonthSummary
}

func (r *stubTransportRepo) Create(_ context.Context, rec *model.TransportRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubTransportRepo) List(_ context.Context, _ dto.TransportFilter) ([]model.TransportRecord, int64, error) {
	return r.records, int64(len(r.records)), nil
}

func (r *stubTransportRepo) MonthlySummary(_ context.Context) ([]dto.TransportMonthSummary, error) {
	return r.summary, nil
}

func TestTransportCreate(t *testing.T) {
	repo := &stubTransportRepo{}
	svc := NewTransportService(repo)

	resp, err := svc.Create(context.Background(), dto.CreateTransportRequest{
		Date:     "2025-06-15",
		Supplier: "Chennai Silks Wholesale",
		Cost:     price(2400),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", resp.Date)
	assert.True(t, resp.Cost.Equal(price(2400)))
	require.Len(t, repo.records, 1)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), repo.records[0].Date)
}

func TestTransportCreateRejectsBadInput(t *testing.T) {
	svc := NewTransportService(&stubTransportRepo{})

	_, err := svc.Create(context.Background(), dto.CreateTransportRequest{
		Date: "15-06-2025", Supplier: "X", Cost: price(100),
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.Create(context.Background(), dto.CreateTransportRequest{
		Date: "2025-06-15", Supplier: "X", Cost: price(-1),
	})
	require.ErrorAs(t, err, &validation)
}

func TestTransportListDefaultsPagination(t *testing.T) {
	repo := &stubTransportRepo{}
	svc := NewTransportService(repo)

	resp, err := svc.List(context.Background(), dto.TransportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	assert.Empty(t, resp.Data)
}
