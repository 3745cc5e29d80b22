// AngelaMos | 2026
// handler.go

package message

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lamjungdrops/storefront/internal/core"
	"github.com/lamjungdrops/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/messages", func(r chi.Router) {
		r.With(optionalAuth).Post("/", h.Send)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/my", h.ListMine)

			r.With(adminOnly).Get("/", h.ListAll)
			r.With(adminOnly).Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Send(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "message sent successfully", m)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, messages)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, messages)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "message")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OKWithMessage(w, "message deleted successfully", nil)
}
