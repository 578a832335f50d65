package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/remarkablejames/richtext"
)

// codes maps richtext error codes to HTTP status codes.
var codes = map[string]int{
	richtext.ECONFLICT: http.StatusConflict,
	richtext.EINVALID:  http.StatusBadRequest,
	richtext.ENOTFOUND: http.StatusNotFound,
	richtext.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for a richtext error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Internal errors are logged
// and their details withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code, message := richtext.ErrorCode(err), richtext.ErrorMessage(err)

	if code == richtext.EINTERNAL {
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	jsonError(w, message, ErrorStatusCode(code))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
