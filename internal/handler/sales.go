package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Checkout godoc
// @Summary      Record a sale
// @Description  Creates a sale in one ACID transaction: assigns the receipt number, deducts stock (purchase) or debits cashback capital (cashback), records payments, and dispatches the async receipt projection.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Checkout(c.Request.Context(), a, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Settle godoc
// @Summary      Settle a credit sale
// @Description  Applies a payment to an open credit sale. Overpayment is returned as change; reaching the full total settles the sale.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Sale UUID"
// @Param        body body dto.SettlementRequest true "Payment"
// @Success      200  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/{id}/settle [post]
func (h *SalesHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	var req dto.SettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Settle(c.Request.Context(), a, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WriteOff godoc
// @Summary      Write off a credit sale
// @Description  Marks an open credit sale as unrecoverable. Terminal; admin only.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Sale UUID"
// @Param        body body dto.WriteOffRequest true "Reason"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/{id}/write-off [post]
func (h *SalesHandler) WriteOff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	var req dto.WriteOffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	if err := h.svc.WriteOff(c.Request.Context(), a, id, req.Reason); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.FindByID(c.Request.Context(), a, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales
// @Description  Paginated sales for the actor's branch, filtered by date, kind, payment status, and credit flag.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        date           query string false "Date YYYY-MM-DD"
// @Param        kind           query string false "purchase | cashback | all"
// @Param        payment_status query string false "pending | partial | paid | all"
// @Param        credit_only    query bool   false "Only credit sales"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), a, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
