// Package form implements the step-gated product form used to create and edit products.
package form

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/spec-kit/catalog-admin/internal/domain"
	"github.com/spec-kit/catalog-admin/internal/validation"
)

// MaxImageSize is the largest file UploadImage accepts.
const MaxImageSize = 5 << 20

// File is an image selected for upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult is the upload endpoint's reply.
type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader sends a file to the image upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, f File) (UploadResult, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, f File) (UploadResult, error)

func (fn UploaderFunc) Upload(ctx context.Context, f File) (UploadResult, error) {
	return fn(ctx, f)
}

// Submission is handed to the submit callback. ProductID is empty when creating.
type Submission struct {
	ProductID string
	Input     domain.ProductInput
}

// SubmitFunc persists a submission.
type SubmitFunc func(ctx context.Context, s Submission) error

// State is a snapshot of a draft for rendering.
type State struct {
	ProductID    string
	Step         Step
	Input        domain.ProductInput
	ImagePreview string
	Uploading    bool
	Submitting   bool
	Errors       validation.FieldErrors
}

// Option configures a Draft.
type Option func(*Draft)

// WithValidator shares a validator instance between drafts.
func WithValidator(v *validation.Validator) Option {
	return func(d *Draft) { d.validator = v }
}

// Draft is the in-progress state of one create or edit operation.
// It is safe for concurrent use; network calls run without holding its lock.
type Draft struct {
	mu         sync.Mutex
	productID  string
	step       Step
	input      domain.ProductInput
	preview    string
	uploading  bool
	submitting bool
	errs       validation.FieldErrors

	uploader  Uploader
	submit    SubmitFunc
	validator *validation.Validator
}

// New returns an empty draft on the first step.
func New(uploader Uploader, submit SubmitFunc, opts ...Option) *Draft {
	d := &Draft{
		step:     StepBasicInfo,
		errs:     validation.FieldErrors{},
		uploader: uploader,
		submit:   submit,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.validator == nil {
		d.validator = validation.New()
	}
	return d
}

// Edit returns a draft pre-populated from an existing product.
func Edit(p *domain.Product, uploader Uploader, submit SubmitFunc, opts ...Option) *Draft {
	d := New(uploader, submit, opts...)
	d.productID = p.ID
	d.input = domain.InputFromProduct(p)
	d.preview = p.ImageURL
	return d
}

// SetName updates the product name.
func (d *Draft) SetName(v string) {
	d.set("name", func(in *domain.ProductInput) { in.Name = v })
}

func (d *Draft) SetDescription(v string) {
	d.set("description", func(in *domain.ProductInput) { in.Description = v })
}

func (d *Draft) SetPrice(v float64) {
	d.set("price", func(in *domain.ProductInput) { in.Price = v })
}

func (d *Draft) SetCategory(v string) {
	d.set("category", func(in *domain.ProductInput) { in.Category = v })
}

func (d *Draft) SetStock(v int) {
	d.set("stock", func(in *domain.ProductInput) { in.Stock = v })
}

func (d *Draft) set(field string, apply func(*domain.ProductInput)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	apply(&d.input)
	delete(d.errs, field)
}

// Advance validates the current step's fields and moves forward when they pass.
// Invalid fields are returned as validation.FieldErrors and the step is unchanged.
func (d *Draft) Advance() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fields := d.step.Fields()
	for _, f := range fields {
		delete(d.errs, f)
	}
	if err := d.validator.ValidateProductFields(d.input, fields...); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			for f, msg := range fieldErrs {
				d.errs[f] = msg
			}
		}
		return err
	}
	if d.step == StepImage {
		return ErrFinalStep
	}
	d.step++
	return nil
}

// Retreat moves one step back without validating. It reports whether the step changed.
func (d *Draft) Retreat() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.step <= StepBasicInfo {
		return false
	}
	d.step--
	return true
}

// UploadImage sends f to the uploader and commits the hosted image on success.
// Any failure clears the image fields; the returned error is a *ConfigurationError or a
// *TransportError. A second upload while one is in flight is rejected, not queued.
func (d *Draft) UploadImage(ctx context.Context, f File) error {
	d.mu.Lock()
	switch {
	case d.uploading:
		d.mu.Unlock()
		return ErrUploadInProgress
	case d.submitting:
		d.mu.Unlock()
		return ErrSubmitInProgress
	case !strings.HasPrefix(f.ContentType, "image/"):
		d.mu.Unlock()
		return ErrNotImage
	case f.Size > MaxImageSize:
		d.mu.Unlock()
		return ErrFileTooLarge
	}
	d.uploading = true
	uploader := d.uploader
	d.mu.Unlock()

	res, err := uploader.Upload(ctx, f)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploading = false

	if err := checkUpload(res, err); err != nil {
		d.input.ImageURL = ""
		d.input.ImagePublicID = ""
		d.preview = ""
		return err
	}
	d.input.ImageURL = res.URL
	d.input.ImagePublicID = res.PublicID
	d.preview = res.URL
	delete(d.errs, "imageUrl")
	return nil
}

// Submit validates the whole draft and hands it to the submit callback. A callback error is
// returned unchanged and the draft is kept for a retry; success discards the draft.
func (d *Draft) Submit(ctx context.Context) error {
	d.mu.Lock()
	switch {
	case d.uploading:
		d.mu.Unlock()
		return ErrUploadInProgress
	case d.submitting:
		d.mu.Unlock()
		return ErrSubmitInProgress
	case d.input.ImageURL == "":
		d.mu.Unlock()
		return ErrImageRequired
	}
	if err := d.validator.ValidateProduct(d.input); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			for f, msg := range fieldErrs {
				d.errs[f] = msg
			}
		}
		d.mu.Unlock()
		return err
	}
	sub := Submission{ProductID: d.productID, Input: d.input}
	d.submitting = true
	submit := d.submit
	d.mu.Unlock()

	err := submit(ctx, sub)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	if err != nil {
		return err
	}
	d.reset()
	return nil
}

func (d *Draft) reset() {
	d.productID = ""
	d.step = StepBasicInfo
	d.input = domain.ProductInput{}
	d.preview = ""
	d.errs = validation.FieldErrors{}
}

// State returns a snapshot of the draft.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	errs := make(validation.FieldErrors, len(d.errs))
	for f, msg := range d.errs {
		errs[f] = msg
	}
	return State{
		ProductID:    d.productID,
		Step:         d.step,
		Input:        d.input,
		ImagePreview: d.preview,
		Uploading:    d.uploading,
		Submitting:   d.submitting,
		Errors:       errs,
	}
}

// CanSubmit mirrors the enabled state of the submit control.
func (d *Draft) CanSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.uploading && !d.submitting && d.input.ImageURL != ""
}

// IsPlaceholder reports whether url looks like a stand-in image rather than a hosted one.
// The substring match can misfire on a real image whose name contains "placeholder".
func IsPlaceholder(url string) bool {
	return strings.Contains(url, "picsum.photos") || strings.Contains(url, "placeholder")
}

type statusCoder interface {
	StatusCode() int
}

type detailer interface {
	ErrorDetails() string
}

func checkUpload(res UploadResult, err error) error {
	if err != nil {
		var details string
		var d detailer
		if errors.As(err, &d) {
			details = d.ErrorDetails()
		}
		var sc statusCoder
		if errors.As(err, &sc) && sc.StatusCode() == http.StatusServiceUnavailable {
			return &ConfigurationError{Message: err.Error(), Details: details}
		}
		return &TransportError{Message: err.Error(), Details: details, Err: err}
	}
	if res.URL == "" || res.PublicID == "" {
		return &TransportError{Message: "Invalid response from upload server"}
	}
	if IsPlaceholder(res.URL) {
		return &ConfigurationError{Message: "Image upload service not properly configured"}
	}
	return nil
}
