package form

import (
	"errors"
	"fmt"
)

var (
	// ErrFinalStep is returned by Advance on the image step once it validates.
	ErrFinalStep = errors.New("form: already on the final step")
	// ErrUploadInProgress rejects uploads and submits while an upload is in flight.
	ErrUploadInProgress = errors.New("form: image upload in progress")
	// ErrSubmitInProgress rejects actions while the submit callback runs.
	ErrSubmitInProgress = errors.New("form: submit in progress")
	// ErrNotImage rejects files whose content type is not image/*.
	ErrNotImage = errors.New("form: file is not an image")
	// ErrFileTooLarge rejects files above MaxImageSize.
	ErrFileTooLarge = errors.New("form: image must be smaller than 5MB")
	// ErrImageRequired blocks submission until an image has been uploaded.
	ErrImageRequired = errors.New("form: product image is required")
)

// ConfigurationError reports that image hosting is not usable: either the upload endpoint said
// so, or it answered with a placeholder image.
type ConfigurationError struct {
	Message string
	Details string
}

func (e *ConfigurationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// TransportError reports a failed upload: network failure, collaborator error or a malformed reply.
type TransportError struct {
	Message string
	Details string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
