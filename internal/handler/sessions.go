package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Open godoc
// @Summary      Open a register session
// @Description  Starts a cash drawer shift with a counted opening balance. One open session per cashier.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenSessionRequest true "Opening balance"
// @Success      201  {object} dto.SessionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sessions [post]
func (h *SessionsHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Open(c.Request.Context(), a, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary      Close a register session
// @Description  Ends the shift with the counted closing balance and returns the reconciliation: expected cash, variance, and whether the drawer balanced.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Session UUID"
// @Param        body body dto.CloseSessionRequest true "Closing balance"
// @Success      200  {object} dto.SessionSummaryResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sessions/{id}/close [post]
func (h *SessionsHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Close(c.Request.Context(), a, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary      Session reconciliation report
// @Description  Expected-cash breakdown for a session. For an open session the window runs to now; for a closed one it is frozen at close time.
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session UUID"
// @Success      200 {object} dto.SessionSummaryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sessions/{id}/report [get]
func (h *SessionsHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Report(c.Request.Context(), a, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Current godoc
// @Summary      Current open session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SessionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sessions/current [get]
func (h *SessionsHandler) Current(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Current(c.Request.Context(), a)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
