package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBodyJSON decodes the body into out. An empty body leaves out untouched.
func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeError maps service errors onto the envelope: ErrNotFound becomes a 404
// with notFoundMsg (when given), everything else a 500 carrying the error text.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error, notFoundMsg, failMsg string) {
	if notFoundMsg != "" && errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail(notFoundMsg))
		return
	}
	logger.Error(op+" failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, FailErr(failMsg, err))
}
