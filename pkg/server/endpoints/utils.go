package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/config"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

const (
	maxBodyBytes     = 1 << 20
	maxDocumentBytes = 28 << 20
	defaultPageLimit = 50
)

// errorCode is the machine-readable code of the JSON error body.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusNotImplemented:
		return "not_configured"
	case http.StatusBadGateway:
		return "upstream_error"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	return "internal"
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]string{
			"code":    errorCode(code),
			"message": message,
		},
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps store sentinels to 404 and 409. Anything else
// is logged and reported as a 500 without detail.
func respondWithStoreError(w http.ResponseWriter, logger *zap.Logger, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, what+" already exists")
	default:
		logger.Error("store operation failed", zap.String("entity", what), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body of at most limit bytes, rejecting unknown
// fields. It writes the error response itself and reports whether decoding
// succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			respondWithError(w, http.StatusBadRequest, "request body is required")
		default:
			respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		return false
	}
	return true
}

// pageFromRequest reads limit and offset, bounded by api_list_limit_max.
func pageFromRequest(r *http.Request, cfg *config.YachtConfig) (store.Page, error) {
	page := store.Page{Limit: defaultPageLimit}
	maxLimit := cfg.APIListLimitMax
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, fmt.Errorf("limit must be a positive integer")
		}
		if maxLimit > 0 && n > maxLimit {
			return page, fmt.Errorf("limit must not exceed %d", maxLimit)
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, fmt.Errorf("offset must be a non-negative integer")
		}
		page.Offset = n
	}
	return page, nil
}

func required(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
}
