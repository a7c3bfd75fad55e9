package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ecomshop/internal/logging"
)

// Kind classifies a failure so the transport layer can pick the status
// code while handlers stay free of http constants.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "something went wrong", Err: err}
}

func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func statusOf(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler maps error kinds to status codes. Internal detail is logged,
// never serialized to the client.
func Handler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := logging.FromContext(c.Request().Context())

		var e *Error
		if errors.As(err, &e) {
			if e.Err != nil {
				log.Error("request failed", "kind", e.Kind, "error", e.Err)
			}
			_ = c.JSON(statusOf(e.Kind), payload{Success: false, Message: e.Message})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, payload{Success: false, Message: msg})
			return
		}

		log.Error("unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, payload{Success: false, Message: "something went wrong"})
	}
}
