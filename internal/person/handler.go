package person

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aquamarinepk/nab"
	"github.com/go-chi/chi/v5"
)

// Handler wires HTTP routes for the people directory.
type Handler struct {
	logger  nab.Logger
	cfg     *nab.Config
	service *Service
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service, logger nab.Logger, cfg *nab.Config) *Handler {
	if logger == nil {
		logger = nab.NewNoopLogger()
	}
	if service == nil {
		service = NewService(nil, logger, cfg, nil)
	}
	return &Handler{logger: logger, cfg: cfg, service: service}
}

// RegisterRoutes implements nab.HTTPModule.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/people", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/report", h.handleReport)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Name:    r.URL.Query().Get("name"),
		Phone:   r.URL.Query().Get("phone"),
		Address: r.URL.Query().Get("address"),
	}

	people := h.service.Search(r.Context(), q)
	nab.RespondSuccess(w, people, nab.CollectionLinksFor("person")...)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	nab.RespondSuccess(w, p, nab.RESTfulLinksFor(p)...)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		nab.Error(w, http.StatusBadRequest, "invalid_payload", "Malformed JSON payload")
		return
	}

	p, err := h.service.Create(r.Context(), payload.ID, payload.Name, payload.Phone, payload.Address)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			details := Validate(New(payload.ID, payload.Name, payload.Phone, payload.Address))
			nab.Error(w, http.StatusBadRequest, "validation_error", err.Error(), details...)
			return
		}
		h.respondServiceError(w, err)
		return
	}

	nab.Respond(w, http.StatusCreated, p, nil)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.service.Render(r.Context())))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		nab.Error(w, http.StatusBadRequest, "invalid_id", "The id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		nab.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrDuplicateID):
		nab.Error(w, http.StatusConflict, "duplicate_id", err.Error())
	case errors.Is(err, ErrNotFound):
		nab.Error(w, http.StatusNotFound, "not_found", err.Error())
	default:
		nab.Error(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
