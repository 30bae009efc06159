package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/api/dto"
	"github.com/spec-kit/catalog-admin/internal/auth"
	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/guard"
	"github.com/spec-kit/catalog-admin/internal/service"
	apperrors "github.com/spec-kit/catalog-admin/pkg/util"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"login":        parsePage("login.html"),
	"dashboard":    parsePage("dashboard.html"),
	"product_form": parsePage("product_form.html"),
	"onboard":      parsePage("onboard.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type pageData struct {
	Title       string
	User        *domain.Session
	CallbackURL string
	Products    []dto.ProductResponse
	Stats       *service.Stats
	Product     dto.ProductResponse
}

// PagesHandler renders the dashboard shell. Access control is applied by the router.
type PagesHandler struct {
	products *service.ProductService
	logger   *zap.Logger
}

// NewPagesHandler constructs handler.
func NewPagesHandler(productService *service.ProductService, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{products: productService, logger: logger}
}

// Login GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.render(c, "login", pageData{
		Title:       "Sign in",
		CallbackURL: guard.SafeCallback(c.Query("callbackUrl"), defaultLanding),
	})
}

// Dashboard GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return h.render(c, "dashboard", pageData{
		Title:    "Products",
		User:     sessionOf(c),
		Products: items,
		Stats:    service.BuildStats(products),
	})
}

// NewProduct GET /dashboard/products/new.
func (h *PagesHandler) NewProduct(c *fiber.Ctx) error {
	return h.render(c, "product_form", pageData{Title: "New product", User: sessionOf(c)})
}

// EditProduct GET /dashboard/products/edit/:id. A vanished product sends the admin back to the listing.
func (h *PagesHandler) EditProduct(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if de := apperrors.ToDomainError(err); de.HTTPStatus == fiber.StatusNotFound {
			return c.Redirect(defaultLanding, fiber.StatusFound)
		}
		return err
	}
	return h.render(c, "product_form", pageData{
		Title:   "Edit product",
		User:    sessionOf(c),
		Product: dto.NewProductResponse(product),
	})
}

// Onboard GET /admin/onboard.
func (h *PagesHandler) Onboard(c *fiber.Ctx) error {
	return h.render(c, "onboard", pageData{Title: "Add admin", User: sessionOf(c)})
}

func (h *PagesHandler) render(c *fiber.Ctx, page string, data pageData) error {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render page", zap.String("page", page), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func sessionOf(c *fiber.Ctx) *domain.Session {
	sess, _ := auth.SessionFromContext(c)
	return sess
}
