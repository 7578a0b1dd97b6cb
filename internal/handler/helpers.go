package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tillpoint/internal/apierror"
	"tillpoint/internal/middleware"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// machine-readable codes. Anything unrecognized falls back to a plain 400.
func writeServiceError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	var capitalErr *service.InsufficientCapitalError
	var paymentErr *service.InsufficientPaymentError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.NewCoded("not_found", err.Error()))
	case errors.Is(err, service.ErrForbiddenBranch):
		c.JSON(http.StatusForbidden, apierror.NewCoded("forbidden_branch", err.Error()))
	case errors.Is(err, service.ErrInvalidCreditInfo):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("invalid_credit_info", err.Error()))
	case errors.Is(err, service.ErrNotCreditSale):
		c.JSON(http.StatusConflict, apierror.NewCoded("not_credit_sale", err.Error()))
	case errors.Is(err, service.ErrAlreadySettled):
		c.JSON(http.StatusConflict, apierror.NewCoded("already_settled", err.Error()))
	case errors.Is(err, service.ErrAlreadyClosed):
		c.JSON(http.StatusConflict, apierror.NewCoded("already_closed", err.Error()))
	case errors.Is(err, service.ErrAlreadyOpen):
		c.JSON(http.StatusConflict, apierror.NewCoded("already_open", err.Error()))
	case errors.Is(err, service.ErrNoOpenSession):
		c.JSON(http.StatusConflict, apierror.NewCoded("no_open_session", err.Error()))
	case errors.Is(err, service.ErrNotTracked):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("not_tracked", err.Error()))
	case errors.Is(err, service.ErrVariantRequired):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("variant_required", err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.NewCoded("conflict", err.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.NewCoded("insufficient_stock", err.Error()))
	case errors.As(err, &capitalErr):
		c.JSON(http.StatusConflict, apierror.NewCoded("insufficient_capital", err.Error()))
	case errors.As(err, &paymentErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("insufficient_payment", err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// actor extracts the authenticated actor from the request claims, writing the
// 401 itself on failure.
func actor(c *gin.Context) (service.Actor, bool) {
	a, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
	}
	return a, ok
}
