package handler

import (
	"net/http"

	"github.com/Guru6163/hotspot-sarees/internal/apierror"
	"github.com/Guru6163/hotspot-sarees/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load dashboard summary"))
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
