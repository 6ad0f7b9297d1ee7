package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code     string            `json:"error_code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Fallback string            `json:"fallback,omitempty"`
	Phone    string            `json:"phone,omitempty"`
}

// StorePhone is shown to clients when booking degrades to "call us".
var StorePhone = ""

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// StatusOf maps a Kind to its HTTP status.
func StatusOf(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Respond writes err as JSON. Errors that are not *Error are treated as an
// unreachable backend.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Unavailable(err)
	}

	body := HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  e.Fields,
	}
	if e.Kind == KindUnavailable {
		body.Fallback = "call_us"
		body.Phone = StorePhone
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusOf(e.Kind), body)
}
