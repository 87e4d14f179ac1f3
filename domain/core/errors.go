package core

import (
	"errors"
	"fmt"
)

// Structural errors. These are the only failures the analysis core is
// allowed to surface: statistical degeneracy (single-class labels, empty
// arrays) always resolves to a defined neutral value instead.
var (
	ErrMissingFile   = errors.New("required metrics file not found")
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyJoin     = errors.New("no matching rows between internal and external metrics")
	ErrMissingSheet  = errors.New("required worksheet not found")
)

// NewMissingFileError names the absent file and the directory searched.
func NewMissingFileError(name, dir string) error {
	return fmt.Errorf("%w: %s in %s", ErrMissingFile, name, dir)
}

// NewMissingColumnError names the table and every absent column so the
// failure is actionable from the message alone.
func NewMissingColumnError(table string, columns []string) error {
	return fmt.Errorf("%w in %s: %v", ErrMissingColumn, table, columns)
}

// IsStructural reports whether err is one of the fatal input-shape errors.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyJoin) ||
		errors.Is(err, ErrMissingSheet)
}
