package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	log "github.com/freundallein/blogs/backend/chassis/logging"

	"github.com/freundallein/blogs/backend/catalog"
	"github.com/freundallein/blogs/backend/chassis/protocol"
)

// Handlers serves the read-only blog endpoints.
type Handlers struct {
	catalog *catalog.Catalog
}

// NewHandlers ...
func NewHandlers(cat *catalog.Catalog) *Handlers {
	return &Handlers{catalog: cat}
}

// ListBlogs - GET /blogs?page=&limit=
func (h *Handlers) ListBlogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := intParam(query.Get("page"), "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := intParam(query.Get("limit"), "limit", h.catalog.DefaultLimit())
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.catalog.List(page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, r, result)
}

// TopTen - GET /blogs/top-ten
func (h *Handlers) TopTen(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.RandomTopTen()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeEnvelope(w, r, result)
}

// GetBlog - GET /blogs/{id}
func (h *Handlers) GetBlog(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, &catalog.ArgumentError{Name: "id", Value: raw, Reason: "must be an integer"})
		return
	}
	rec, err := h.catalog.GetByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.WithFields(log.Fields{
		"event":      "serve_blog",
		"request_id": RequestIDFrom(r.Context()),
	}).Debug(rec)
	writeJSON(w, r, http.StatusOK, rec.Raw())
}

// NotFound answers paths no route matches.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, errorBody(r, protocol.CodeNotFound, "no route for "+r.URL.Path))
}

// MethodNotAllowed answers known paths requested with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusMethodNotAllowed, errorBody(r, protocol.CodeMethodNotAllowed, "method "+r.Method+" not allowed"))
}

// Health - GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(map[string]interface{}{
		"status": "ok",
		"count":  h.catalog.Count(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, body)
}

func intParam(value, name string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &catalog.ArgumentError{Name: name, Value: value, Reason: "must be an integer"}
	}
	return n, nil
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, page *catalog.Page) {
	env := &protocol.Envelope{
		Page:  page.Page,
		Pages: page.Pages,
		Next:  page.Next,
		Prev:  page.Prev,
		Count: page.Count,
		Blogs: make([]json.RawMessage, 0, len(page.Blogs)),
	}
	for _, rec := range page.Blogs {
		env.Blogs = append(env.Blogs, rec.Raw())
	}
	body, err := env.JSON()
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.WithFields(log.Fields{
		"event":      "serve_page",
		"request_id": RequestIDFrom(r.Context()),
	}).Debug(env)
	writeJSON(w, r, http.StatusOK, body)
}

// statusOf maps catalog errors to HTTP status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrInvalidPage):
		return http.StatusBadRequest, protocol.CodeInvalidPage
	case errors.Is(err, catalog.ErrInvalidArgument):
		return http.StatusBadRequest, protocol.CodeInvalidArgument
	case errors.Is(err, catalog.ErrInsufficientData):
		return http.StatusConflict, protocol.CodeInsufficientData
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, protocol.CodeNotFound
	default:
		return http.StatusInternalServerError, protocol.CodeInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	message := err.Error()
	entry := log.WithFields(log.Fields{
		"event":      "request_failed",
		"code":       code,
		"status":     status,
		"request_id": RequestIDFrom(r.Context()),
	})
	if status >= http.StatusInternalServerError {
		entry.Error(err)
		message = http.StatusText(status)
	} else {
		entry.Debug(err)
	}
	writeJSON(w, r, status, errorBody(r, code, message))
}

// Used when the error body itself cannot be encoded.
var internalErrorBody = []byte(`{"error":{"code":"internal","message":"Internal Server Error"}}`)

func errorBody(r *http.Request, code, message string) []byte {
	body, err := protocol.NewErrorResponse(code, message).JSON()
	if err != nil {
		log.WithFields(log.Fields{
			"event":      "error_serialize_failed",
			"request_id": RequestIDFrom(r.Context()),
		}).Error(err)
		return internalErrorBody
	}
	return body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.WithFields(log.Fields{
			"event":      "write_response_failed",
			"request_id": RequestIDFrom(r.Context()),
		}).Error(err)
	}
}
