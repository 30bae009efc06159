// Command catalogctl creates or edits a product through the dashboard API, walking the same
// three-step form the browser uses.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-admin/internal/apiclient"
	"github.com/spec-kit/catalog-admin/internal/config"
	"github.com/spec-kit/catalog-admin/internal/form"
	"github.com/spec-kit/catalog-admin/internal/observability"
	"github.com/spec-kit/catalog-admin/internal/validation"
)

type options struct {
	baseURL     string
	email       string
	password    string
	id          string
	name        string
	description string
	price       float64
	category    string
	stock       int
	image       string
	list        bool
	remove      bool
	set         map[string]bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.baseURL, "url", "http://localhost:8080", "dashboard base URL")
	flag.StringVar(&o.email, "email", os.Getenv("ADMIN_EMAIL"), "admin email")
	flag.StringVar(&o.password, "password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.StringVar(&o.id, "id", "", "product id to edit; empty creates a new product")
	flag.StringVar(&o.name, "name", "", "product name")
	flag.StringVar(&o.description, "description", "", "product description")
	flag.Float64Var(&o.price, "price", 0, "unit price")
	flag.StringVar(&o.category, "category", "", "category")
	flag.IntVar(&o.stock, "stock", 0, "units in stock")
	flag.StringVar(&o.image, "image", "", "path to an image file to upload")
	flag.BoolVar(&o.list, "list", false, "list the catalog and exit")
	flag.BoolVar(&o.remove, "delete", false, "delete the product named by -id and exit")
	flag.Parse()

	o.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o
}

func main() {
	opts := parseFlags()

	logger, err := observability.NewLogger(config.LoggerConfig{Level: envOr("LOG_LEVEL", "info")})
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, opts, logger); err != nil {
		logger.Fatal("catalogctl failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	client, err := apiclient.New(opts.baseURL)
	if err != nil {
		return err
	}
	if _, err := client.Login(ctx, opts.email, opts.password); err != nil {
		return err
	}

	switch {
	case opts.list:
		return listProducts(ctx, client, logger)
	case opts.remove:
		if opts.id == "" {
			return errors.New("-delete needs -id")
		}
		if err := client.DeleteProduct(ctx, opts.id); err != nil {
			return err
		}
		logger.Info("product deleted", zap.String("id", opts.id))
		return nil
	}

	validator := validation.New()
	var draft *form.Draft
	if opts.id != "" {
		product, err := client.GetProduct(ctx, opts.id)
		if err != nil {
			return err
		}
		draft = form.Edit(product, client, client.Submit, form.WithValidator(validator))
	} else {
		draft = form.New(client, client.Submit, form.WithValidator(validator))
	}
	applyFlags(draft, opts)

	for draft.State().Step < form.StepImage {
		step := draft.State().Step
		if err := draft.Advance(); err != nil {
			logFieldErrors(logger, step, err)
			return err
		}
	}

	if opts.image != "" {
		file, closeFn, err := openImage(opts.image)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := draft.UploadImage(ctx, file); err != nil {
			var cfgErr *form.ConfigurationError
			if errors.As(err, &cfgErr) {
				logger.Error("image hosting is not configured on the server", zap.String("details", cfgErr.Details))
			}
			return err
		}
		logger.Info("image uploaded", zap.String("url", draft.State().ImagePreview))
	}

	state := draft.State()
	if err := draft.Submit(ctx); err != nil {
		logFieldErrors(logger, form.StepImage, err)
		return err
	}
	action := "created"
	if state.ProductID != "" {
		action = "updated"
	}
	logger.Info("product "+action, zap.String("name", state.Input.Name), zap.String("category", state.Input.Category))
	return nil
}

func listProducts(ctx context.Context, client *apiclient.Client, logger *zap.Logger) error {
	products, err := client.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		logger.Info("product",
			zap.String("id", p.ID),
			zap.String("name", p.Name),
			zap.String("category", p.Category),
			zap.Float64("price", p.Price),
			zap.Int("stock", p.Stock),
			zap.Int("sales", p.Sales),
		)
	}
	logger.Info("catalog listed", zap.Int("count", len(products)))
	return nil
}

func applyFlags(d *form.Draft, o options) {
	if o.set["name"] {
		d.SetName(o.name)
	}
	if o.set["description"] {
		d.SetDescription(o.description)
	}
	if o.set["price"] {
		d.SetPrice(o.price)
	}
	if o.set["category"] {
		d.SetCategory(o.category)
	}
	if o.set["stock"] {
		d.SetStock(o.stock)
	}
}

// openImage sniffs the content type from the first bytes of the file.
func openImage(path string) (form.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return form.File{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return form.File{}, nil, err
	}
	r := bufio.NewReader(f)
	head, err := r.Peek(512)
	if err != nil && len(head) == 0 {
		_ = f.Close()
		return form.File{}, nil, err
	}
	return form.File{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(head),
		Size:        info.Size(),
		Content:     r,
	}, func() { _ = f.Close() }, nil
}

func logFieldErrors(logger *zap.Logger, step form.Step, err error) {
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for field, msg := range fieldErrs {
		logger.Warn("invalid field", zap.Stringer("step", step), zap.String("field", field), zap.String("message", msg))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
