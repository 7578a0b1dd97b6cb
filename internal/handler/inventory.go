package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Manual stock adjustment
// @Description  Applies a signed delta to a product or variant's stock and writes the movement to the ledger. Admin/manager only.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      201  {object} dto.InventoryLogResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.AdjustManual(c.Request.Context(), a, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Movements godoc
// @Summary      List stock movements
// @Description  Paginated, append-only stock ledger, newest first.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  query string false "Filter by product UUID"
// @Param        variant_id  query string false "Filter by variant UUID"
// @Param        change_type query string false "sale | manual | restock"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 100)"
// @Success      200 {object} dto.InventoryLogListResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.InventoryLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Low stock alerts
// @Description  Products and variants at or below their low-stock threshold for the actor's branch.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.LowStockAlertResponse
// @Router       /v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.LowStockAlerts(c.Request.Context(), a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list low stock alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
