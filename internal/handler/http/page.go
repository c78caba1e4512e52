package http

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/internal/service"
	apperrors "github.com/chrisdetmering/Product-Page/pkg/errors"
	"github.com/chrisdetmering/Product-Page/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{
			"ratings": func() []int { return []int{5, 4, 3, 2, 1} },
		}).
		ParseFS(templateFS, "templates/page.html"),
)

// PageHandler serves the server-rendered product page. Every mutation is a
// form post answered with a redirect back to the page.
type PageHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(svc *service.SessionService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service: svc,
		logger:  logger,
	}
}

// Show handles GET /
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), sessionIDFromContext(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		h.log(r).ErrorContext(r.Context(), "render page", slog.String("error", err.Error()))
	}
}

// SelectVariant handles POST /variants/{index}
func (h *PageHandler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, r, apperrors.InvalidInput("variant index must be an integer"))
		return
	}

	_, err = h.service.SelectVariant(r.Context(), sessionIDFromContext(r), index)
	h.redirect(w, r, err)
}

// AddToCart handles POST /cart/add
func (h *PageHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.AddToCart(r.Context(), sessionIDFromContext(r))
	h.redirect(w, r, err)
}

// RemoveFromCart handles POST /cart/remove
func (h *PageHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.RemoveFromCart(r.Context(), sessionIDFromContext(r))
	h.redirect(w, r, err)
}

// SelectTab handles POST /tabs
func (h *PageHandler) SelectTab(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid form"))
		return
	}

	_, err := h.service.SelectTab(r.Context(), sessionIDFromContext(r), domain.Tab(r.PostForm.Get("tab")))
	h.redirect(w, r, err)
}

// SubmitReview handles POST /reviews
func (h *PageHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid form"))
		return
	}

	in := domain.ReviewInput{
		Name:   r.PostForm.Get("name"),
		Review: r.PostForm.Get("review"),
		Rating: parseRating(r.PostForm.Get("rating")),
	}

	_, err := h.service.SubmitReview(r.Context(), sessionIDFromContext(r), in)
	h.redirect(w, r, err)
}

// Reset handles POST /reset
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	err := h.service.Reset(r.Context(), sessionIDFromContext(r))
	h.redirect(w, r, err)
}

// redirect sends the visitor back to the page. Refused actions leave the
// page unchanged, like a disabled control.
func (h *PageHandler) redirect(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Status == http.StatusInternalServerError {
			h.writeError(w, r, err)
			return
		}
		h.log(r).DebugContext(r.Context(), "action refused",
			slog.String("path", r.URL.Path),
			slog.String("code", appErr.Code),
		)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log(r).ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	http.Error(w, http.StatusText(status), status)
}

func (h *PageHandler) log(r *http.Request) *slog.Logger {
	if l := logger.FromContext(r.Context()); l != slog.Default() {
		return l
	}
	return h.logger
}

// parseRating returns 0, meaning no rating selected, for blank or
// non-numeric input.
func parseRating(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
