package handler

import (
	"errors"
	"net/http"

	"github.com/Guru6163/hotspot-sarees/internal/apierror"
	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// CompletePurchase handles POST /api/purchases — the checkout.
// Status mapping:
//
//	400 validation / split mismatch
//	404 unknown stock item
//	409 insufficient stock, sequence exhausted, collision retries spent
//	503 transaction infrastructure failure (retryable)
func (h *PurchasesHandler) CompletePurchase(c *gin.Context) {
	var req dto.CompletePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.CompletePurchase(c.Request.Context(), req)
	if err != nil {
		writePurchaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func writePurchaseError(c *gin.Context, err error) {
	var validation *service.ValidationError
	var mismatch *service.SplitPaymentMismatchError
	var notFound *service.StockItemNotFoundError
	var insufficient *service.InsufficientStockError
	var txErr *service.TransactionError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, apierror.New(validation.Msg))
	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, apierror.WithDetails(mismatch.Error(), gin.H{
			"expected": mismatch.Expected,
			"actual":   mismatch.Actual,
		}))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.WithDetails("stock item not found", gin.H{
			"stockId": notFound.StockItemID.String(),
		}))
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, apierror.WithDetails(insufficient.Error(), gin.H{
			"stockId":   insufficient.StockItemID.String(),
			"humanCode": insufficient.HumanCode,
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		}))
	case errors.Is(err, service.ErrInvoiceSequenceExhausted),
		errors.Is(err, service.ErrInvoiceAllocationFailed):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &txErr):
		c.JSON(http.StatusServiceUnavailable, apierror.New("transaction failed, please retry"))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list purchases"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *PurchasesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetPurchase(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("purchase not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load purchase"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
