package common

import (
	"errors"
	"fmt"
)

// FetchError reports that a quote could not be retrieved
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch quote: %s", e.Reason)
	}
	return fmt.Sprintf("fetch quote: %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError reports a drawing failure. Renders are not retried.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ExportError reports that an image could not be encoded or saved
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsRenderError reports whether err wraps a RenderError
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// IsExportError reports whether err wraps an ExportError
func IsExportError(err error) bool {
	var ee *ExportError
	return errors.As(err, &ee)
}
