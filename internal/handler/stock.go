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

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, apierror.New(validation.Msg))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create stock item"))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *StockHandler) List(c *gin.Context) {
	var filter dto.StockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list stock"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *StockHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("stock item not found"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *StockHandler) GetByCode(c *gin.Context) {
	resp, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("stock item not found"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *StockHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("stock item not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *StockHandler) AdjustQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustQuantity(c.Request.Context(), id, req)
	if err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, apierror.New(validation.Msg))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to adjust quantity"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *StockHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrStockReferenced) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("stock item not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to delete stock item"))
		return
	}
	c.Status(http.StatusNoContent)
}
