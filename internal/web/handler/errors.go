package handler

import (
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Zsh123456-BOOP/jnu-web/internal/apperr"
)

// MySQL error numbers mapped to client errors.
const (
	mysqlDuplicateEntry     = 1062
	mysqlNoReferencedRow    = 1452
	notFoundMessage         = "Not Found"
	internalErrorMessage    = "Internal Server Error"
	duplicateEntryMessage   = "Duplicate entry"
	invalidReferenceMessage = "Invalid reference"
)

// Classify maps err to the status, message and details of the error
// envelope.
func Classify(err error) (int, string, any) {
	if e, ok := apperr.As(err); ok {
		return e.Status, e.Message, e.Details
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return http.StatusConflict, duplicateEntryMessage, nil
		case mysqlNoReferencedRow:
			return http.StatusBadRequest, invalidReferenceMessage, nil
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, duplicateEntryMessage, nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest, invalidReferenceMessage, nil
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return fe.Code, notFoundMessage, nil
		}

		return fe.Code, fe.Message, nil
	}

	return http.StatusInternalServerError, internalErrorMessage, nil
}

// ErrorHandler is the fiber error handler of the API. Server errors are
// logged with their cause; the client only sees the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message, details := Classify(err)

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("request failed")
	}

	return Fail(c, status, message, details)
}

// NotFoundHandler answers every unmatched route.
func NotFoundHandler(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusNotFound, notFoundMessage, nil)
}
