package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/model"
	"github.com/Guru6163/hotspot-sarees/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrStockReferenced is returned when deleting an item that purchase lines
// still point at. Referenced items can only be deactivated.
var ErrStockReferenced = errors.New("stock item is referenced by purchases and cannot be deleted")

const codeCacheTTL = 5 * time.Minute

// StockService is the warehouse-side contract: CRUD, code generation, and
// manual quantity adjustments. Sale decrements never pass through here.
type StockService interface {
	Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.StockResponse, error)
	List(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.StockResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stockService struct {
	repo repository.StockRepository
	rdb  *redis.Client
}

func NewStockService(repo repository.StockRepository, rdb *redis.Client) StockService {
	return &stockService{repo: repo, rdb: rdb}
}

func (s *stockService) Create(ctx context.Context, req dto.CreateStockRequest) (*dto.StockResponse, error) {
	prefix := codePrefix(req.Category)
	seq, err := s.repo.NextCodeSequence(ctx, prefix)
	if err != nil {
		return nil, err
	}

	item := model.StockItem{
		HumanCode:    fmt.Sprintf("%s-%04d", prefix, seq),
		Name:         req.Name,
		Category:     req.Category,
		Color:        req.Color,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		UnitCost:     req.UnitCost,
		SellingPrice: req.SellingPrice,
		Supplier:     req.Supplier,
		IsActive:     true,
	}
	if item.MinQuantity == 0 {
		item.MinQuantity = 5
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return stockToResponse(&item), nil
}

func (s *stockService) GetByID(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return stockToResponse(item), nil
}

// GetByCode serves the barcode-scan lookup on the POS screen. The hot path
// is cached briefly in Redis; quantities shown here are advisory — the
// checkout transaction re-reads them under lock.
func (s *stockService) GetByCode(ctx context.Context, code string) (*dto.StockResponse, error) {
	cacheKey := "stock:code:" + code
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.StockResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := stockToResponse(item)

	if s.rdb != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, cacheKey, encoded, codeCacheTTL)
		}
	}
	return resp, nil
}

func (s *stockService) List(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockResponse, 0, len(items))
	for i := range items {
		data = append(data, *stockToResponse(&items[i]))
	}
	return &dto.StockListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stockService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*dto.StockResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Color != nil {
		item.Color = req.Color
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}
	if req.SellingPrice != nil {
		item.SellingPrice = req.SellingPrice
	}
	if req.Supplier != nil {
		item.Supplier = req.Supplier
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateCode(ctx, item.HumanCode)
	return stockToResponse(item), nil
}

func (s *stockService) AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.StockResponse, error) {
	if err := s.repo.AdjustQuantity(ctx, id, req.Delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Msg: "adjustment would make quantity negative or item does not exist"}
		}
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateCode(ctx, item.HumanCode)
	return stockToResponse(item), nil
}

// Delete hard-deletes an unreferenced item; items with purchase history are
// never removed (restrict semantics) — deactivate them instead.
func (s *stockService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountPurchaseRefs(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrStockReferenced
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCode(ctx, item.HumanCode)
	return nil
}

func (s *stockService) invalidateCode(ctx context.Context, code string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, "stock:code:"+code)
	}
}

// codePrefix derives the human-code prefix from the category: first letter of
// up to two words, uppercased ("Handloom Saree" → "HS"). Falls back to "HS".
func codePrefix(category string) string {
	words := strings.Fields(category)
	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		r := []rune(w)[0]
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return "HS"
	}
	return b.String()
}

func stockToResponse(item *model.StockItem) *dto.StockResponse {
	return &dto.StockResponse{
		ID:           item.ID.String(),
		HumanCode:    item.HumanCode,
		Name:         item.Name,
		Category:     item.Category,
		Color:        item.Color,
		Quantity:     item.Quantity,
		MinQuantity:  item.MinQuantity,
		UnitCost:     item.UnitCost,
		SellingPrice: item.SellingPrice,
		Supplier:     item.Supplier,
		IsActive:     item.IsActive,
	}
}
