package service

import (
	"context"
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"
	"github.com/Guru6163/hotspot-sarees/internal/repository"
)

const transportDateLayout = "2006-01-02"

type TransportService interface {
	Create(ctx context.Context, req dto.CreateTransportRequest) (*dto.TransportResponse, error)
	List(ctx context.Context, filter dto.TransportFilter) (*dto.TransportListResponse, error)
	MonthlySummary(ctx context.Context) ([]dto.TransportMonthSummary, error)
}

type transportService struct {
	repo repository.TransportRepository
}

func NewTransportService(repo repository.TransportRepository) TransportService {
	return &transportService{repo: repo}
}

func (s *transportService) Create(ctx context.Context, req dto.CreateTransportRequest) (*dto.TransportResponse, error) {
	date, err := time.ParseInLocation(transportDateLayout, req.Date, time.Local)
	if err != nil {
		return nil, &ValidationError{Msg: "date must be YYYY-MM-DD"}
	}
	if req.Cost.IsNegative() {
		return nil, &ValidationError{Msg: "cost must be non-negative"}
	}
	rec := model.TransportRecord{
		Date:          date,
		Supplier:      req.Supplier,
		VehicleNumber: req.VehicleNumber,
		Cost:          req.Cost,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return nil, err
	}
	return transportToResponse(&rec), nil
}

func (s *transportService) List(ctx context.Context, filter dto.TransportFilter) (*dto.TransportListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TransportResponse, 0, len(records))
	for i := range records {
		data = append(data, *transportToResponse(&records[i]))
	}
	return &dto.TransportListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *transportService) MonthlySummary(ctx context.Context) ([]dto.TransportMonthSummary, error) {
	return s.repo.MonthlySummary(ctx)
}

func transportToResponse(rec *model.TransportRecord) *dto.TransportResponse {
	return &dto.TransportResponse{
		ID:            rec.ID.String(),
		Date:          rec.Date.Format(transportDateLayout),
		Supplier:      rec.Supplier,
		VehicleNumber: rec.VehicleNumber,
		Cost:          rec.Cost,
		Notes:         rec.Notes,
	}
}
