// Package apiclient talks to the catalog admin HTTP API with a cookie-held session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/catalog-admin/internal/api/dto"
	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/form"
)

// Client is safe for concurrent use once logged in.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its jar must be set for sessions to stick.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("apiclient: invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Error is a non-2xx API reply.
type Error struct {
	Status  int
	Message string
	Code    string
	Details json.RawMessage
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status: %d %s", e.Status, http.StatusText(e.Status))
}

// StatusCode returns the HTTP status of the reply.
func (e *Error) StatusCode() int {
	return e.Status
}

// ErrorDetails renders the reply's details, if any, as a single line.
func (e *Error) ErrorDetails() string {
	if len(e.Details) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Details, &s); err == nil {
		return s
	}
	var m map[string]any
	if err := json.Unmarshal(e.Details, &m); err != nil {
		return string(e.Details)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 1 {
		return fmt.Sprint(m[keys[0]])
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return strings.Join(parts, "; ")
}

// Login opens a session; the cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProducts returns the catalog, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out dto.ProductListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(out.Products))
	for _, p := range out.Products {
		products = append(products, *p.ToDomain())
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return c.product(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil)
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return c.product(ctx, http.MethodPost, "/api/products", dto.NewProductRequest(in))
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return c.product(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), dto.NewProductRequest(in))
}

// DeleteProduct removes a product; the server releases its hosted image.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	var out dto.MessageResponse
	return c.doJSON(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, &out)
}

// Submit creates or updates the product described by s. It satisfies form.SubmitFunc.
func (c *Client) Submit(ctx context.Context, s form.Submission) error {
	var err error
	if s.ProductID == "" {
		_, err = c.CreateProduct(ctx, s.Input)
	} else {
		_, err = c.UpdateProduct(ctx, s.ProductID, s.Input)
	}
	return err
}

// Upload posts f to the image upload endpoint. It satisfies form.Uploader.
func (c *Client) Upload(ctx context.Context, f form.File) (form.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	header.Set("Content-Type", f.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return form.UploadResult{}, err
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return form.UploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return form.UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/products/upload", &buf)
	if err != nil {
		return form.UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out dto.UploadResponse
	if err := c.do(req, &out); err != nil {
		return form.UploadResult{}, err
	}
	return form.UploadResult{URL: out.URL, PublicID: out.PublicID}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *Client) product(ctx context.Context, method, path string, body any) (*domain.Product, error) {
	var out dto.ProductEnvelope
	if err := c.doJSON(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out.Product.ToDomain(), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
		r = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var body struct {
			Error   string          `json:"error"`
			Code    string          `json:"code"`
			Details json.RawMessage `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Error
			apiErr.Code = body.Code
			apiErr.Details = body.Details
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
