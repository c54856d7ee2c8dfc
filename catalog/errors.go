package catalog

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNotFound         = errors.New("not found")
	ErrStartupLoad      = errors.New("startup load failed")
)

// InvalidPageError - requested page lies outside [1, Pages].
type InvalidPageError struct {
	Page  int
	Pages int
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("page %d is out of range [1, %d]", e.Page, e.Pages)
}

// Is ...
func (e *InvalidPageError) Is(target error) bool { return target == ErrInvalidPage }

// ArgumentError - malformed or out of range request argument.
type ArgumentError struct {
	Name   string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}

// Is ...
func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// InsufficientDataError - catalog is smaller than the requested sample.
type InsufficientDataError struct {
	Want  int
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d blogs, catalog has %d", e.Want, e.Count)
}

// Is ...
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// NotFoundError - no record carries the requested id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blog %d not found", e.ID)
}

// Is ...
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StartupLoadError - dataset is missing or malformed. Fatal.
type StartupLoadError struct {
	Source string
	Cause  error
}

func (e *StartupLoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Cause)
}

// Is ...
func (e *StartupLoadError) Is(target error) bool { return target == ErrStartupLoad }

// Unwrap ...
func (e *StartupLoadError) Unwrap() error { return e.Cause }
