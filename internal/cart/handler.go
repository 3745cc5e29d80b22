// AngelaMos | 2026
// handler.go

package cart

import (
	"encoding/json"
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

// RegisterRoutes mounts /cart for users and dealers. Admins have no cart.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole("user", "dealer"))

		r.Get("/", h.GetCart)
		r.Post("/add", h.AddToCart)
		r.Delete("/remove/{productId}", h.RemoveFromCart)
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetCart(r.Context(), shopperFrom(r))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, CartResponse{Cart: *view})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "product id and quantity are required")
		return
	}

	view, err := h.service.AddToCart(r.Context(), shopperFrom(r), req.ProductID, req.Quantity)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "added to cart", CartResponse{Cart: *view})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveFromCart(
		r.Context(),
		shopperFrom(r),
		chi.URLParam(r, "productId"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "removed from cart", CartResponse{Cart: *view})
}

func shopperFrom(r *http.Request) Shopper {
	return Shopper{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}
}
