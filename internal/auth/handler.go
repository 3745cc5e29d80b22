// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lamjungdrops/storefront/internal/core"
	"github.com/lamjungdrops/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	cookies   *CookieWriter
	validator *validator.Validate
	now       func() time.Time
}

func NewHandler(service *Service, cookies *CookieWriter) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: core.NewValidator(),
		now:       time.Now,
	}
}

// RegisterRoutes mounts /auth. The dealer workflow routes require an admin
// identity from authenticator.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password/{token}", h.ResetPassword)

		r.With(optionalAuth).Get("/check-auth", h.CheckAuth)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireAdmin)
			r.Get("/pending-dealers", h.PendingDealers)
			r.Post("/approve-dealer", h.ApproveDealer)
			r.Post("/reject-dealer", h.RejectDealer)
		})
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	message := "user created successfully"
	if result.Token != nil {
		h.cookies.Set(w, result.Token, h.now())
	} else {
		message = "dealer account created, awaiting admin approval"
	}

	core.Created(w, message, AuthResponse{
		Status: result.Status,
		User:   result.User,
	})
}

type pendingResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Status  string       `json:"status"`
	User    UserResponse `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrPendingApproval) && result != nil {
			core.JSON(w, http.StatusForbidden, pendingResponse{
				Success: false,
				Message: "your dealer account is pending approval",
				Code:    "PENDING_APPROVAL",
				Status:  StatusPending,
				User:    result.User,
			})
			return
		}
		core.JSONError(w, err)
		return
	}

	h.cookies.Set(w, result.Token, h.now())

	core.OKWithMessage(w, "logged in successfully", AuthResponse{
		Status: result.Status,
		User:   result.User,
	})
}

// Logout always succeeds. Without a server-side session store the only
// thing to do is expire the cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	core.OKWithMessage(w, "logged out successfully", nil)
}

func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CheckAuth(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "email verified successfully", user)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(
		w,
		"if that email is registered, a reset link has been sent",
		nil,
	)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		core.BadRequest(w, "reset token required")
		return
	}

	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "password reset successful", nil)
}

func (h *Handler) PendingDealers(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.service.PendingDealers(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, PendingDealersResponse{PendingDealers: dealers})
}

func (h *Handler) ApproveDealer(w http.ResponseWriter, r *http.Request) {
	var req ApproveDealerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.ApproveDealer(r.Context(), req.UserID, req.BulkDiscountRate)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "dealer approved successfully", user)
}

func (h *Handler) RejectDealer(w http.ResponseWriter, r *http.Request) {
	var req RejectDealerRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.RejectDealer(r.Context(), req.UserID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "dealer rejected and removed", nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}
