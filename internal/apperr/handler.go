package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if IsClientError(err) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// IsClientError reports whether err was caused by the request itself:
// missing fields, an unknown dialect or an untranslatable query.
func IsClientError(err error) bool {
	var ve *ValidationError
	var te *TranslationError
	var de *UnsupportedDialectError
	return errors.As(err, &ve) || errors.As(err, &te) || errors.As(err, &de)
}
