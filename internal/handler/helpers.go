package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tablero/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
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
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "JSON invalido: "+err.Error()))
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

// respondError maps the error taxonomy onto HTTP statuses. Unknown errors
// become an opaque 500; the cause goes to operator logs only.
func respondError(c *gin.Context, err error) {
	var e *apierror.Error
	if !errors.As(err, &e) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.Internal())
		return
	}
	status := http.StatusInternalServerError
	switch e.Kind {
	case apierror.KindValidation:
		status = http.StatusUnprocessableEntity
	case apierror.KindNotFound:
		status = http.StatusNotFound
	case apierror.KindCrossTenant, apierror.KindReferentialConflict:
		status = http.StatusConflict
	}
	c.JSON(status, e)
}
