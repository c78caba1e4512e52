package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdetmering/Product-Page/internal/catalog"
	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/internal/repository/memory"
	"github.com/chrisdetmering/Product-Page/internal/service"
	"github.com/chrisdetmering/Product-Page/pkg/health"
	"github.com/chrisdetmering/Product-Page/pkg/pagination"
)

// ============================================================================
// Test helpers
// ============================================================================

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func socks(t *testing.T) domain.ProductInfo {
	t.Helper()
	info, err := catalog.Default()
	require.NoError(t, err)
	return info
}

func newTestRouter(t *testing.T, info domain.ProductInfo) http.Handler {
	t.Helper()
	logger := newTestLogger()

	assets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assets, "vmSocks-green.jpg"), []byte("green"), 0o600))

	svc := service.NewSessionService(info, memory.NewSessionRepository(time.Hour), nil, logger, service.Options{
		Premium:    true,
		SessionTTL: time.Hour,
	})
	return NewRouter(svc, health.NewHandler(), logger, RouterConfig{AssetsDir: assets})
}

type client struct {
	t       *testing.T
	handler http.Handler
	session string
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, handler: h, session: service.NewSessionID()}
}

func (c *client) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", form.Encode())
}

func (c *client) page() string {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/", "", "")
	require.Equal(c.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

type apiResponse struct {
	Data  *service.View `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============================================================================
// Session middleware
// ============================================================================

func TestSessionID_IssuesCookieForNewVisitor(t *testing.T) {
	h := newTestRouter(t, socks(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(SessionHeader)
	assert.True(t, service.ValidSessionID(id))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionID_ReplacesMalformedHeader(t *testing.T) {
	h := newTestRouter(t, socks(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/", nil)
	req.Header.Set(SessionHeader, "../../etc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "../../etc", rec.Header().Get(SessionHeader))
	assert.Equal(t, rec.Header().Get(SessionHeader), decode(t, rec).Data.SessionID)
}

func TestSessionID_HeaderIdentifiesSession(t *testing.T) {
	h := newTestRouter(t, socks(t))
	id := service.NewSessionID()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/storefront/cart", nil)
		req.Header.Set(SessionHeader, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/", nil)
	req.Header.Set(SessionHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, []int{2234, 2234}, decode(t, rec).Data.Cart)
}

func TestSessionID_Precedence(t *testing.T) {
	cookieID := service.NewSessionID()
	headerID := service.NewSessionID()

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"header wins over cookie", headerID, cookieID, headerID},
		{"cookie only", "", cookieID, cookieID},
		{"malformed header falls back to cookie", "not-a-uuid", cookieID, cookieID},
		{"header only", headerID, "", headerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, socks(t))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get(SessionHeader))
			assert.Equal(t, tt.want, decode(t, rec).Data.SessionID)
		})
	}
}

// ============================================================================
// HTML page
// ============================================================================

func TestPage_Initial(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))
	body := c.page()

	assert.Contains(t, body, "<h1>Vue Mastery Socks</h1>")
	assert.Contains(t, body, "Almost Sold Out!")
	assert.Contains(t, body, "Shipping cost: Free")
	assert.Contains(t, body, "User is premium: true")
	assert.Contains(t, body, "<li>80% cotton</li>")
	assert.Contains(t, body, "Cart(0)")
	assert.Contains(t, body, "There are no reviews")
	assert.NotContains(t, body, "Remove from cart")
	assert.NotContains(t, body, "is on sale!")
	assert.NotContains(t, body, "disabledButton")
}

func TestPage_CartFlow(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.post("/cart/add", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	c.post("/variants/1", nil)
	c.post("/cart/add", nil)
	body := c.page()
	assert.Contains(t, body, "Cart(2)")
	assert.Contains(t, body, "Remove from cart")
	assert.Contains(t, body, "./assets/vmSocks-blue.png")

	c.post("/cart/remove", nil)
	c.post("/cart/remove", nil)
	body = c.page()
	assert.Contains(t, body, "Cart(1)")
}

func TestPage_SelectVariant_BadIndex(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.post("/variants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.post("/variants/9", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, c.page(), "./assets/vmSocks-green.jpg")
}

func TestPage_MalformedForm(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	for _, path := range []string{"/tabs", "/reviews"} {
		rec := c.do(http.MethodPost, path, "application/x-www-form-urlencoded", "name=%zz")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
	assert.Contains(t, c.page(), "There are no reviews")
}

func TestPage_AddToCartDisabledBelowTen(t *testing.T) {
	info := socks(t)
	info.Variants[0].Quantity = 0
	c := newClient(t, newTestRouter(t, info))

	body := c.page()
	assert.Contains(t, body, `class="outOfStock"`)
	assert.Contains(t, body, "disabledButton")

	rec := c.post("/cart/add", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, c.page(), "Cart(0)")
}

func TestPage_ReviewFlow(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	c.post("/tabs", url.Values{"tab": {"Make a Review"}})
	body := c.page()
	assert.Contains(t, body, `class="review-form"`)
	assert.NotContains(t, body, "There are no reviews")

	c.post("/reviews", url.Values{"name": {""}, "review": {""}, "rating": {""}})
	body = c.page()
	nameIdx := strings.Index(body, "<li>Name required</li>")
	reviewIdx := strings.Index(body, "<li>Review required</li>")
	ratingIdx := strings.Index(body, "<li>Rating required</li>")
	require.True(t, nameIdx > 0 && reviewIdx > 0 && ratingIdx > 0)
	assert.Less(t, nameIdx, reviewIdx)
	assert.Less(t, reviewIdx, ratingIdx)

	c.post("/reviews", url.Values{"name": {""}, "review": {"ok"}, "rating": {"3"}})
	body = c.page()
	assert.Contains(t, body, "<li>Name required</li>")
	assert.NotContains(t, body, "<li>Review required</li>")
	assert.Contains(t, body, ">ok</textarea>")
	assert.Contains(t, body, "<option selected>3</option>")

	c.post("/reviews", url.Values{"name": {"Alice"}, "review": {"Great socks"}, "rating": {"5"}})
	c.post("/tabs", url.Values{"tab": {"Reviews"}})
	body = c.page()
	assert.Contains(t, body, "Name: Alice")
	assert.Contains(t, body, "Review: Great socks")
	assert.Contains(t, body, "Rating: 5")
	assert.NotContains(t, body, "There are no reviews")
}

func TestPage_ReviewEscapesInput(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	c.post("/reviews", url.Values{"name": {"<script>x</script>"}, "review": {"hi"}, "rating": {"4"}})
	body := c.page()

	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestPage_Reset(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	c.post("/cart/add", nil)
	rec := c.post("/reset", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, c.page(), "Cart(0)")
}

func TestPage_SessionsIsolated(t *testing.T) {
	h := newTestRouter(t, socks(t))
	a, b := newClient(t, h), newClient(t, h)

	a.post("/cart/add", nil)

	assert.Contains(t, a.page(), "Cart(1)")
	assert.Contains(t, b.page(), "Cart(0)")
}

// ============================================================================
// JSON API
// ============================================================================

func TestAPI_GetStorefront(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodGet, "/api/v1/storefront/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	data := raw["data"]
	assert.Equal(t, "Free", data["shipping"])
	assert.NotContains(t, data, "sale_message")
	assert.Equal(t, "Almost Sold Out!", data["stock_message"])
	assert.Equal(t, true, data["can_add_to_cart"])
	assert.Equal(t, []any{}, data["cart"])
}

func TestAPI_SelectVariant(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPut, "/api/v1/storefront/variant", "application/json", `{"index":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "./assets/vmSocks-blue.png", decode(t, rec).Data.Image)

	rec = c.do(http.MethodPut, "/api/v1/storefront/variant", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)

	rec = c.do(http.MethodPut, "/api/v1/storefront/variant", "application/json", `{"index":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_VARIANT", decode(t, rec).Error.Code)
}

func TestAPI_Cart(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	c.do(http.MethodPost, "/api/v1/storefront/cart", "", "")
	rec := c.do(http.MethodPost, "/api/v1/storefront/cart", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2234, 2234}, decode(t, rec).Data.Cart)

	rec = c.do(http.MethodDelete, "/api/v1/storefront/cart", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec).Data
	assert.Equal(t, []int{2234}, view.Cart)
	assert.False(t, view.CartEmpty)
}

func TestAPI_AddToCartRefused(t *testing.T) {
	info := socks(t)
	info.Variants[0].Quantity = 5
	c := newClient(t, newTestRouter(t, info))

	rec := c.do(http.MethodPost, "/api/v1/storefront/cart", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PURCHASE_DISABLED", decode(t, rec).Error.Code)
}

func TestAPI_SelectTab(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPut, "/api/v1/storefront/tab", "application/json", `{"tab":"Make a Review"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TabMakeReview, decode(t, rec).Data.ActiveTab)
}

func TestAPI_SubmitReview(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPost, "/api/v1/storefront/reviews", "application/json", `{"name":"","review":"","rating":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Name required", "Review required", "Rating required"}, decode(t, rec).Data.Form.Errors)

	rec = c.do(http.MethodPost, "/api/v1/storefront/reviews", "application/json", `{"name":"Alice","review":"Great socks","rating":5}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	view := decode(t, rec).Data
	assert.Equal(t, []domain.Review{{Name: "Alice", Text: "Great socks", Rating: 5}}, view.Reviews)
	assert.Empty(t, view.Form.Errors)
}

func TestAPI_ListReviews(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	for _, name := range []string{"A", "B", "C"} {
		rec := c.do(http.MethodPost, "/api/v1/storefront/reviews", "application/json",
			`{"name":"`+name+`","review":"nice","rating":4}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := c.do(http.MethodGet, "/api/v1/storefront/reviews?page=2&per_page=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data pagination.Result[domain.Review] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.TotalCount)
	assert.Equal(t, 2, resp.Data.TotalPages)
	assert.True(t, resp.Data.HasPrev)
	assert.False(t, resp.Data.HasNext)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "C", resp.Data.Items[0].Name)
}

func TestAPI_ListReviews_PageBeyondRange(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPost, "/api/v1/storefront/reviews", "application/json",
		`{"name":"A","review":"nice","rating":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/storefront/reviews?page=9223372036854775807&per_page=20", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data pagination.Result[domain.Review] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
	assert.Equal(t, 1, resp.Data.TotalCount)
}

func TestAPI_RejectsNonJSON(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPut, "/api/v1/storefront/tab", "text/plain", "tab=Reviews")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAPI_MalformedBody(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	rec := c.do(http.MethodPost, "/api/v1/storefront/reviews", "application/json", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Reset(t *testing.T) {
	c := newClient(t, newTestRouter(t, socks(t)))

	c.do(http.MethodPost, "/api/v1/storefront/cart", "", "")
	rec := c.do(http.MethodDelete, "/api/v1/storefront/", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/storefront/", "", "")
	assert.True(t, decode(t, rec).Data.CartEmpty)
}

// ============================================================================
// Assets and health
// ============================================================================

func TestAssets(t *testing.T) {
	h := newTestRouter(t, socks(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/vmSocks-green.jpg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "green", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, socks(t))

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
