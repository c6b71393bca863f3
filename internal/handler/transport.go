package handler

import (
	"errors"
	"net/http"

	"github.com/Guru6163/hotspot-sarees/internal/apierror"
	"github.com/Guru6163/hotspot-sarees/internal/dto"
	"github.com/Guru6163/hotspot-sarees/internal/service"

	"github.com/gin-gonic/gin"
)

type TransportHandler struct{ svc service.TransportService }

func NewTransportHandler(svc service.TransportService) *TransportHandler {
	return &TransportHandler{svc: svc}
}

func (h *TransportHandler) Create(c *gin.Context) {
	var req dto.CreateTransportRequest
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
		c.JSON(http.StatusInternalServerError, apierror.New("failed to create transport record"))
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

func (h *TransportHandler) List(c *gin.Context) {
	var filter dto.TransportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list transport records"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

func (h *TransportHandler) Summary(c *gin.Context) {
	resp, err := h.svc.MonthlySummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load transport summary"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
