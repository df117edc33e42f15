package domain

import "errors"

var (
	ErrCaseNotFound    = errors.New("case not found")
	ErrDuplicateCase   = errors.New("case already exists")
	ErrInvalidCase     = errors.New("invalid case")
	ErrEmptyCaseNumber = errors.New("empty case number")
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
)
