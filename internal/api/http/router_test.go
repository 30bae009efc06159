package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/catalog-admin/internal/api/http/handlers"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/config"
	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/events"
	"github.com/spec-kit/catalog-admin/internal/imagehost"
	"github.com/spec-kit/catalog-admin/internal/observability"
	"github.com/spec-kit/catalog-admin/internal/repository/repositorytest"
	"github.com/spec-kit/catalog-admin/internal/service"
	"github.com/spec-kit/catalog-admin/internal/session"
	"github.com/spec-kit/catalog-admin/internal/validation"
	"github.com/spec-kit/catalog-admin/internal/worker"
)

type fakeHost struct {
	uploadErr error
	deleted   []string
}

func (h *fakeHost) Upload(_ context.Context, r io.Reader) (imagehost.Image, error) {
	if h.uploadErr != nil {
		return imagehost.Image{}, h.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return imagehost.Image{}, err
	}
	return imagehost.Image{URL: "https://res.cloudinary.com/demo/image/upload/ecommerce-products/abc.jpg", PublicID: "ecommerce-products/abc"}, nil
}

func (h *fakeHost) Delete(_ context.Context, publicID string) error {
	h.deleted = append(h.deleted, publicID)
	return nil
}

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context) error { return p.err }

type testApp struct {
	app      *fiber.App
	users    *repositorytest.UserRepository
	products *repositorytest.ProductRepository
	host     *fakeHost
}

func newTestApp(t *testing.T, images func(*fakeHost) imagehost.Handle, db okPinger) *testApp {
	t.Helper()
	logger := zap.NewNop()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "router-test", SessionTTLMinutes: 30, BcryptCost: bcrypt.MinCost}}
	users := repositorytest.NewUserRepository()
	products := repositorytest.NewProductRepository()
	host := &fakeHost{}
	handle := imagehost.NewHandle(host)
	if images != nil {
		handle = images(host)
	}

	validator := validation.New()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartImageCleanupWorker(service.NewImageCleanupService(dispatcher, handle, logger))
	worker.StartCatalogAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:     users,
		SessionStore: session.NewRedisStore(client),
		Validator:    validator,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: products,
		Validator:   validator,
		Dispatcher:  dispatcher,
	})
	metrics := observability.NewMetrics("test")

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler("catalog-admin", "test", db, okPinger{}, handle),
		Auth:     handlers.NewAuthHandler(authService, false, logger),
		Products: handlers.NewProductsHandler(productService, handle, metrics, logger),
		Admin:    handlers.NewAdminHandler(authService),
		Pages:    handlers.NewPagesHandler(productService, logger),
		Guard:    auth.NewSessionGuard(authService, logger),
		Metrics:  metrics,
	})
	return &testApp{app: app, users: users, products: products, host: host}
}

func (a *testApp) addUser(t *testing.T, email string, role domain.Role) {
	t.Helper()
	hash, err := auth.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), &domain.User{Name: "Tester", Email: email, PasswordHash: hash, Role: role}))
}

func (a *testApp) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	resp := a.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret123"}), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == "authjs.session-token" {
			return ck
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (a *testApp) do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, contentType string, size int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if contentType != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xff}, size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/products/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestEdgeRedirectsWithoutCookie(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard", resp.Header.Get("Location"))
}

func TestNonAdminPassesEdgeButIsRedirectedByInnerTier(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "user@example.com", domain.RoleUser)
	cookie := a.login(t, "user@example.com")

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookie)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/products", nil), cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminSeesDashboard(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	a.products.Put(domain.Product{Name: "Widget", Category: "Tools", Price: 9.99, Stock: 5})
	cookie := a.login(t, "admin@example.com")

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookie)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Widget")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestAPIRejectsMissingSession(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})

	for _, path := range []string{"/api/products", "/api/products/stats"} {
		resp := a.do(t, httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, map[string]any{"error": "Unauthorized", "code": "UNAUTHORIZED"}, decode(t, resp))
	}

	resp := a.do(t, jsonRequest(http.MethodPost, "/api/admin/onboard", map[string]string{}), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductRoundTrip(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")

	payload := map[string]any{
		"name": "Widget", "description": "A widget", "price": 9.99,
		"category": "Tools", "stock": 5, "imageUrl": "https://res.cloudinary.com/x/y.jpg",
	}
	resp := a.do(t, jsonRequest(http.MethodPost, "/api/products", payload), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)["product"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)["product"].(map[string]any)

	for k, v := range payload {
		if k == "stock" {
			assert.Equal(t, 5.0, got[k])
			continue
		}
		assert.Equal(t, v, got[k], k)
	}
	assert.Equal(t, 0.0, got["sales"])
	assert.Equal(t, id, got["id"])
}

func TestProductValidationAndNotFound(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")

	resp := a.do(t, jsonRequest(http.MethodPost, "/api/products", map[string]any{
		"name": "Widget", "description": "A widget", "price": 0,
		"category": "Tools", "stock": 5, "imageUrl": "https://res.cloudinary.com/x/y.jpg",
	}), cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Validation error", body["error"])
	assert.Equal(t, "Price must be positive", body["details"].(map[string]any)["price"])

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil), cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, httptest.NewRequest(http.MethodDelete, "/api/products/5f0c6a52-1a1e-4b7a-9d0a-4c1c1a3b2d10", nil), cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateReplacingDummyImage(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")
	stored := a.products.Put(domain.Product{
		Name: "Mug", Description: "Ceramic", Price: 9, Category: "Kitchen", Stock: 3,
		ImageURL: "https://example.com/old.jpg", ImagePublicID: "dummy-1",
	})

	resp := a.do(t, jsonRequest(http.MethodPut, "/api/products/"+stored.ID, map[string]any{
		"name": "Mug", "description": "Ceramic", "price": 9, "category": "Kitchen", "stock": 3,
		"imageUrl": "https://res.cloudinary.com/demo/new.jpg", "imagePublicId": "ecommerce-products/new",
	}), cookie)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, a.host.deleted)

	resp = a.do(t, httptest.NewRequest(http.MethodDelete, "/api/products/"+stored.ID, nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product deleted successfully", decode(t, resp)["message"])
	assert.Equal(t, []string{"ecommerce-products/new"}, a.host.deleted)
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name        string
		images      func(*fakeHost) imagehost.Handle
		contentType string
		size        int
		status      int
		errMsg      string
	}{
		{"no file", nil, "", 0, http.StatusBadRequest, "No file provided"},
		{"not an image", nil, "text/plain", 10, http.StatusBadRequest, "File must be an image"},
		{"too large", nil, "image/jpeg", 5*1024*1024 + 1, http.StatusBadRequest, "File size must be less than 5MB"},
		{"hosting unconfigured", func(*fakeHost) imagehost.Handle { return imagehost.Handle{} }, "image/jpeg", 10, http.StatusServiceUnavailable, "Image hosting is not configured"},
		{"hosting failure", func(h *fakeHost) imagehost.Handle {
			h.uploadErr = errors.New("Invalid Signature")
			return imagehost.NewHandle(h)
		}, "image/jpeg", 10, http.StatusInternalServerError, "Failed to upload image"},
		{"success", nil, "image/jpeg", 10, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, tt.images, okPinger{})
			a.addUser(t, "admin@example.com", domain.RoleAdmin)
			cookie := a.login(t, "admin@example.com")

			resp := a.do(t, uploadRequest(t, tt.contentType, tt.size), cookie)
			body := decode(t, resp)

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
				if tt.status >= 500 {
					assert.NotEmpty(t, body["details"])
				}
				return
			}
			assert.Equal(t, "ecommerce-products/abc", body["publicId"])
			assert.Contains(t, body["url"], "res.cloudinary.com")
		})
	}
}

func TestStatsRouteIsNotAnID(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")
	a.products.Put(domain.Product{Name: "Widget", Category: "Tools", Price: 2.5, Stock: 4, Sales: 3})

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/api/products/stats", nil), cookie)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, []any{map[string]any{"name": "Tools", "value": 10.0}}, body["categoryValue"])
}

func TestEditPageForMissingProductRedirects(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard/products/edit/5f0c6a52-1a1e-4b7a-9d0a-4c1c1a3b2d10", nil), cookie)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestPagesRender(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")
	stored := a.products.Put(domain.Product{Name: "Lamp", Description: "Bright", Category: "Home", Price: 20, Stock: 1, ImageURL: "https://res.cloudinary.com/demo/lamp.jpg"})

	for _, path := range []string{"/dashboard/products/new", "/dashboard/products/edit/" + stored.ID, "/admin/onboard"} {
		resp := a.do(t, httptest.NewRequest(http.MethodGet, path, nil), cookie)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/login?callbackUrl=%2Fdashboard%2Fproducts%2Fnew", nil), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Sign in")
}

func TestLoginSessionLogout(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)

	resp := a.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "secret123", "callbackUrl": "https://evil.example.com",
	}), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "authjs.session-token" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/dashboard", decode(t, resp)["redirectTo"])

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), cookie)
	user := decode(t, resp)["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])

	resp = a.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), cookie)
	assert.Nil(t, decode(t, resp)["user"])

	resp = a.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong-pass"}), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOnboardAdmin(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)
	cookie := a.login(t, "admin@example.com")
	payload := map[string]string{"name": "Second", "email": "second@example.com", "password": "secret123"}

	resp := a.do(t, jsonRequest(http.MethodPost, "/api/admin/onboard", payload), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Admin created successfully", body["message"])
	assert.Equal(t, "second@example.com", body["user"].(map[string]any)["email"])

	resp = a.do(t, jsonRequest(http.MethodPost, "/api/admin/onboard", payload), cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     okPinger
		status int
		state  string
	}{
		{"healthy", okPinger{}, http.StatusOK, "healthy"},
		{"degraded", okPinger{err: fmt.Errorf("dial tcp: refused")}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, func(*fakeHost) imagehost.Handle { return imagehost.Handle{} }, tt.db)

			resp := a.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil), nil)

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode(t, resp)
			assert.Equal(t, tt.state, body["status"])
			assert.Equal(t, "unconfigured", body["services"].(map[string]any)["imageHosting"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.do(t, httptest.NewRequest(http.MethodGet, "/health/live", nil), nil)

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `test_http_requests_total{method="GET",route="/health/live",status="200"} 1`))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})

	resp := a.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, resp)["code"])
}

func TestLoginIgnoresOffSiteCallback(t *testing.T) {
	a := newTestApp(t, nil, okPinger{})
	a.addUser(t, "admin@example.com", domain.RoleAdmin)

	for _, callback := range []string{"/\t/evil.example", "/\n/evil.example", "/\\evil.example", "/dashboard/products/new"} {
		resp := a.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
			"email": "admin@example.com", "password": "secret123", "callbackUrl": callback,
		}), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		want := "/dashboard"
		if callback == "/dashboard/products/new" {
			want = callback
		}
		assert.Equal(t, want, decode(t, resp)["redirectTo"], "%q", callback)
	}
}
