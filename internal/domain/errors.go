package domain

import "errors"

// ErrToolNotFound indicates the named executable cannot be located on PATH.
// This is the only analysis failure surfaced to callers; everything else
// degrades to a minimal record.
var ErrToolNotFound = errors.New("tool not found")

// ErrInvalidToolName indicates a blank or unsafe tool-name string.
var ErrInvalidToolName = errors.New("invalid tool name")
