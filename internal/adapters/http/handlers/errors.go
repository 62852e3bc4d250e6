package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"loantrack/internal/core/domain"
	"loantrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a service error onto the response envelope. Anything
// unrecognised is logged in full and reported as a generic 500.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var verr *domain.ValidationError
	var terr *domain.TransitionError

	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, "Validation failed", verr.Fields)
	case errors.Is(err, errInvalidBody):
		return response.BadRequest(c, "Invalid request body")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, domain.ErrUnauthenticated):
		return response.Unauthorized(c, "Authentication required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrTokenExpired):
		return response.Unauthorized(c, "Token expired, please login again")
	case errors.Is(err, domain.ErrTokenRevoked), errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, "Invalid token, please login again")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.As(err, &terr):
		return response.Conflict(c, terr.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		return response.Conflict(c, "Email already registered")
	default:
		log.Error("❌ Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return response.InternalServerError(c, "Internal server error")
	}
}

var errInvalidBody = errors.New("invalid request body")

// parseBody decodes the request body into out. A JSON value of the wrong
// type is reported as a validation error on its field.
func parseBody(c *fiber.Ctx, out interface{}) error {
	err := c.BodyParser(out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := &domain.ValidationError{}
		verr.Add(typeErr.Field, fmt.Sprintf("%s must be a %s",
			strings.ReplaceAll(typeErr.Field, "_", " "), kindName(typeErr.Type)))
		return verr
	}
	return errInvalidBody
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return "valid value"
	}
}
