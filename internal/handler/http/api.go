package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/internal/service"
	"github.com/chrisdetmering/Product-Page/pkg/httputil"
	"github.com/chrisdetmering/Product-Page/pkg/pagination"
	"github.com/chrisdetmering/Product-Page/pkg/validator"
)

// APIHandler exposes the storefront as JSON.
type APIHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewAPIHandler creates a new JSON API handler.
func NewAPIHandler(svc *service.SessionService, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SelectVariantRequest is the JSON request body for selecting a variant.
type SelectVariantRequest struct {
	Index *int `json:"index" validate:"required"`
}

// SelectTabRequest is the JSON request body for selecting a tab.
type SelectTabRequest struct {
	Tab string `json:"tab"`
}

// SubmitReviewRequest is the JSON request body for submitting a review.
// Presence is checked by the review form, not here.
type SubmitReviewRequest struct {
	Name   string `json:"name"`
	Review string `json:"review"`
	Rating int    `json:"rating"`
}

// --- Handlers ---

// GetStorefront handles GET /api/v1/storefront
func (h *APIHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), sessionIDFromContext(r))
	h.respond(w, r, view, err)
}

// SelectVariant handles PUT /api/v1/storefront/variant
func (h *APIHandler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	var req SelectVariantRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.SelectVariant(r.Context(), sessionIDFromContext(r), *req.Index)
	h.respond(w, r, view, err)
}

// AddToCart handles POST /api/v1/storefront/cart
func (h *APIHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.AddToCart(r.Context(), sessionIDFromContext(r))
	h.respond(w, r, view, err)
}

// RemoveFromCart handles DELETE /api/v1/storefront/cart
func (h *APIHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveFromCart(r.Context(), sessionIDFromContext(r))
	h.respond(w, r, view, err)
}

// SelectTab handles PUT /api/v1/storefront/tab
func (h *APIHandler) SelectTab(w http.ResponseWriter, r *http.Request) {
	var req SelectTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.SelectTab(r.Context(), sessionIDFromContext(r), domain.Tab(req.Tab))
	h.respond(w, r, view, err)
}

// SubmitReview handles POST /api/v1/storefront/reviews. A rejected review
// answers 422 with the form errors in the view.
func (h *APIHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.SubmitReview(r.Context(), sessionIDFromContext(r), domain.ReviewInput{
		Name:   req.Name,
		Review: req.Review,
		Rating: req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	if len(view.Form.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: view})
}

// ListReviews handles GET /api/v1/storefront/reviews?page=&per_page=
func (h *APIHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), sessionIDFromContext(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page := pagination.Slice(view.Reviews, pagination.FromRequest(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// Reset handles DELETE /api/v1/storefront
func (h *APIHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), sessionIDFromContext(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) respond(w http.ResponseWriter, r *http.Request, view *service.View, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}
