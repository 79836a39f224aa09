package export

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// Handler exposes the change-log export over HTTP.
type Handler struct {
	service *Service
}

// NewHTTPHandler wires the export HTTP surface.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	entityKind := strings.TrimSpace(query.Get("entityKind"))
	if entityKind == "" {
		http.Error(w, "entityKind is required", http.StatusBadRequest)
		return
	}
	entityID, err := strconv.ParseInt(strings.TrimSpace(query.Get("entityId")), 10, 64)
	if err != nil || entityID <= 0 {
		http.Error(w, "entityId must be a positive integer", http.StatusBadRequest)
		return
	}

	// Build the workbook in memory first so a failed export can still answer
	// with a clean error status instead of a truncated download.
	var buf bytes.Buffer
	if _, err := h.service.WriteChangeLog(r.Context(), entityKind, entityID, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("changes-%s-%d.xlsx", sanitizeFileComponent(entityKind), entityID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[export] failed to write response: %v", err)
	}
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	result := strings.Trim(builder.String(), "-")
	if result == "" {
		return "entity"
	}
	return result
}
