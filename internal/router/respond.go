package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"aquashop.ca/storefront/api/pkg/global"
)

var validatorOnce sync.Once

// configureValidator makes gin binding read the models' validate tags and
// report fields by their JSON names.
func configureValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.SetTagName("validate")
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, global.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, global.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, global.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, global.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, global.ErrConflict), errors.Is(err, global.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err in the response envelope. Errors without a known
// kind are logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		if fallback == "" {
			fallback = "Internal server error"
		}
		c.JSON(status, global.ErrorResponse(fallback, nil))
		return
	}

	var appErr *global.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, global.ErrorResponse(appErr.Message, appErr.Details()))
		return
	}
	c.JSON(status, global.ErrorResponse(err.Error(), nil))
}

// bindJSON decodes and validates the request body, answering 400 itself when
// that fails.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	if details := validationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", details))
		return false
	}

	c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
		{Field: "body", Message: err.Error(), Code: "json_parse_error"},
	}))
	return false
}

// validationDetails flattens validator failures, including the per-element
// errors gin reports when binding a JSON array.
func validationDetails(err error) []global.ValidationError {
	var sliceErrs binding.SliceValidationError
	if errors.As(err, &sliceErrs) {
		var details []global.ValidationError
		for _, elemErr := range sliceErrs {
			details = append(details, validationDetails(elemErr)...)
		}
		return details
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]global.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, global.ValidationError{
			Field:   fieldPath(fe),
			Message: fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()),
			Code:    fe.Tag(),
		})
	}
	return details
}

// fieldPath drops the root struct name from the validator namespace, so
// "PlaceOrderRequest.shipping_address.city" becomes "shipping_address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, global.NewValidationError(key, key+" must be an integer")
	}
	return n, nil
}

// pageParams reads page and limit; the services clamp them.
func pageParams(c *gin.Context) (int, int, bool) {
	page, err := queryInt(c, "page")
	if err != nil {
		respondError(c, err, "")
		return 0, 0, false
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, err, "")
		return 0, 0, false
	}
	return page, limit, true
}

func cacheHeader(c *gin.Context, hit bool) {
	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
}
