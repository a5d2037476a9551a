package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ioramishvili/GuestService/internal/domain"
	"github.com/ioramishvili/GuestService/internal/guest"
	"github.com/ioramishvili/GuestService/internal/http/response"
	"github.com/ioramishvili/GuestService/pkg/logger"
)

type GuestHandler struct {
	svc *guest.Service
}

func NewGuestHandler(svc *guest.Service) *GuestHandler {
	return &GuestHandler{svc: svc}
}

func (h *GuestHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id:[0-9]+}", h.view)
	r.Put("/{id:[0-9]+}", h.update)
	r.Patch("/{id:[0-9]+}", h.update)
	r.Delete("/{id:[0-9]+}", h.delete)
	return r
}

type guestListRes struct {
	TotalCount  int               `json:"totalCount"`
	PageCount   int               `json:"pageCount"`
	CurrentPage int               `json:"currentPage"`
	PerPage     int               `json:"perPage"`
	Guests      []domain.GuestDTO `json:"guests"`
}

func (h *GuestHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ListFilter{
		Email:   q.Get("email"),
		Phone:   q.Get("phone"),
		Country: q.Get("country"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.svc.List(r.Context(), filter, page, pageSize)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list guests", "error", err)
		response.InternalError(w, "Failed to retrieve guests.")
		return
	}

	dtos := make([]domain.GuestDTO, 0, len(result.Guests))
	for i := range result.Guests {
		dtos = append(dtos, result.Guests[i].DTO())
	}

	response.JSON(w, http.StatusOK, guestListRes{
		TotalCount:  result.TotalCount,
		PageCount:   result.PageCount,
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		Guests:      dtos,
	})
}

func (h *GuestHandler) view(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	g, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, guest.ErrNotFound) {
		response.NotFound(w, fmt.Sprintf("Guest with ID %d not found.", id))
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to get guest", "id", id, "error", err)
		response.InternalError(w, "Failed to retrieve guest.")
		return
	}

	response.JSON(w, http.StatusOK, g.DTO())
}

func (h *GuestHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.GuestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format.")
		return
	}

	g, err := h.svc.Create(r.Context(), in)
	if err != nil {
		var verrs guest.ValidationErrors
		if errors.As(err, &verrs) {
			response.FieldErrors(w, verrs)
			return
		}
		response.InternalError(w, "Failed to create guest for unknown reasons.")
		return
	}

	response.JSON(w, http.StatusCreated, g.DTO())
}

func (h *GuestHandler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var in domain.GuestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format.")
		return
	}

	g, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		var verrs guest.ValidationErrors
		switch {
		case errors.Is(err, guest.ErrNotFound):
			response.NotFound(w, fmt.Sprintf("Guest with ID %d not found.", id))
		case errors.As(err, &verrs):
			response.FieldErrors(w, verrs)
		default:
			response.InternalError(w, "Failed to update guest for unknown reasons.")
		}
		return
	}

	response.JSON(w, http.StatusOK, g.DTO())
}

func (h *GuestHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, guest.ErrNotFound) {
		response.NotFound(w, fmt.Sprintf("Guest with ID %d not found.", id))
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to delete guest", "id", id, "error", err)
		response.InternalError(w, "Failed to delete guest for unknown reasons.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
