package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/frontdesk/internal/models"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
)

// writeServiceError maps a service error onto a status code. notFound is the
// message used for ErrNotFound.
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, detail(err, models.ErrBadRequest))
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, notFound)
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, detail(err, models.ErrConflict))
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "insufficient permissions")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// detail strips the sentinel prefix from a wrapped error message
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
