package sleep

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Handler serves the /api/sleeps REST surface consumed by the SPA clients.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates the sleep API handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the sleep routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sleeps", h.handleList)
	mux.HandleFunc("POST /api/sleeps", h.handleCreate)
	mux.HandleFunc("GET /api/sleeps/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/sleeps/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/sleeps/{id}", h.handleDelete)
}

// handleList returns a filtered, sorted, paginated page envelope.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := parsePageQuery(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.svc.ListPage(r.Context(), q)
	if res.Status == StatusFail {
		writeMessage(w, http.StatusBadRequest, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGet returns a single record view.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res := h.svc.GetByID(r.Context(), id)
	if res.Status == StatusFail {
		writeMessage(w, http.StatusNotFound, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, res.Data)
}

// handleCreate stores a new sleep record and points Location at it.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("invalid request body", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := h.svc.Create(r.Context(), req)
	if res.Status == StatusFail {
		writeMessage(w, http.StatusBadRequest, res.Message)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/sleeps/%d", res.Data.ID))
	writeJSON(w, http.StatusCreated, res.Data)
}

// handleUpdate overwrites an existing record's interval.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("invalid request body", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := h.svc.Update(r.Context(), id, req)
	if res.Status == StatusFail {
		writeMessage(w, http.StatusBadRequest, res.Message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDelete soft-deletes a record.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res := h.svc.Delete(r.Context(), id)
	if res.Status == StatusFail {
		writeMessage(w, http.StatusNotFound, res.Message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts the {id} path segment, rejecting non-integers.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// parsePageQuery binds the list query parameters. Names match what the SPA
// clients send (Page, PageSize, SortBy, ...) and are matched
// case-insensitively, like the binding the clients were written against.
func parsePageQuery(values url.Values) (PageQuery, error) {
	var q PageQuery

	if s := queryValue(values, "Page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("Page must be an integer")
		}
		q.Page = n
	}
	if s := queryValue(values, "PageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("PageSize must be an integer")
		}
		q.PageSize = n
	}
	q.SortBy = queryValue(values, "SortBy")
	if s := queryValue(values, "SortAscending"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errors.New("SortAscending must be a boolean")
		}
		q.SortAscending = &b
	}
	if s := queryValue(values, "Start"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return q, errors.New("Start must be a valid timestamp")
		}
		q.Start = &t
	}
	if s := queryValue(values, "End"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return q, errors.New("End must be a valid timestamp")
		}
		q.End = &t
	}
	if s := queryValue(values, "MinDurationHours"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errors.New("MinDurationHours must be a number")
		}
		q.MinDurationHours = &f
	}
	if s := queryValue(values, "MaxDurationHours"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errors.New("MaxDurationHours must be a number")
		}
		q.MaxDurationHours = &f
	}

	return q, nil
}

// queryValue finds a query parameter by case-insensitive name. The
// canonical spelling wins outright; otherwise keys are scanned in sorted
// order so duplicate spellings resolve deterministically.
func queryValue(values url.Values, name string) string {
	if vals, ok := values[name]; ok && len(vals) > 0 {
		return vals[0]
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.EqualFold(key, name) {
			continue
		}
		if vals := values[key]; len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// -- response helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes a failure as a plain message string, the shape the
// SPA clients expect on non-2xx responses.
func writeMessage(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}
