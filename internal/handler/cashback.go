package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type CashbackHandler struct{ svc service.CashbackService }

func NewCashbackHandler(svc service.CashbackService) *CashbackHandler {
	return &CashbackHandler{svc: svc}
}

// Balance godoc
// @Summary      Cashback capital balance
// @Tags         cashback
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CapitalResponse
// @Router       /v1/cashback/capital [get]
func (h *CashbackHandler) Balance(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	balance, err := h.svc.Balance(c.Request.Context(), a.BranchID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CapitalResponse{BranchID: a.BranchID.String(), Balance: balance})
}

// TopUp godoc
// @Summary      Top up cashback capital
// @Description  Credits the branch's cashback capital pool. Admin only.
// @Tags         cashback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustCapitalRequest true "Amount to add"
// @Success      200  {object} dto.CapitalResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cashback/capital/top-up [post]
func (h *CashbackHandler) TopUp(c *gin.Context) {
	var req dto.AdjustCapitalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("amount must be positive"))
		return
	}

	balance, err := h.svc.Credit(c.Request.Context(), a, a.BranchID, req.Amount, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CapitalResponse{BranchID: a.BranchID.String(), Balance: balance})
}
