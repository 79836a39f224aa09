package changelog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Handler exposes the detection service and the change log over JSON/HTTP.
type Handler struct {
	service *Service
	reader  LogReader
}

// NewHTTPHandler wires the changelog HTTP surface.
func NewHTTPHandler(service *Service, reader LogReader) http.Handler {
	return &Handler{service: service, reader: reader}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/detect"):
		h.handleDetect(w, r)
	case r.Method == http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type detectPayload struct {
	RecordID       int64 `json:"recordId"`
	FromRevisionID int64 `json:"fromRevisionId"`
	ToRevisionID   int64 `json:"toRevisionId"`
}

func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var payload detectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	entries, err := h.service.DetectChanges(r.Context(), DetectRequest{
		RecordID:       payload.RecordID,
		FromRevisionID: payload.FromRevisionID,
		ToRevisionID:   payload.ToRevisionID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
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
	limit := 50
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	offset := 0
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
			return
		}
		offset = parsed
	}
	entries, err := h.reader.List(r.Context(), entityKind, entityID, limit, offset)
	if err != nil {
		http.Error(w, fmt.Sprintf("list changes: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
