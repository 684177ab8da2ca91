package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArchive       = errors.New("not a valid zip archive")
	ErrSalesFileMissing     = errors.New("sales file not found in archive")
	ErrMissingColumn        = errors.New("required column missing from source table")
	ErrMalformedInput       = errors.New("malformed input table")
	ErrInvalidGSTIN         = errors.New("supplier GSTIN is missing or invalid")
	ErrInvalidPeriod        = errors.New("reporting month or year is missing or invalid")
	ErrTemplateUnavailable  = errors.New("report template could not be fetched")
	ErrTemplateSheetMissing = errors.New("report template has no raw sheet")
	ErrUnknownSchemaVersion = errors.New("unknown filing schema version")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("artifact upload to storage failed")
	ErrHSNMasterUnavailable = errors.New("HSN master could not be loaded")
)

// MalformedInputError reports a source table that could not be read.
type MalformedInputError struct {
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %q: %v", e.Source, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformedInput) match any MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewMalformedInputError creates a MalformedInputError for the named source.
func NewMalformedInputError(source string, err error) *MalformedInputError {
	return &MalformedInputError{Source: source, Err: err}
}
