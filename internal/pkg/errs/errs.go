// Package errs is the error vocabulary for the booking core: wrapped causes
// keep their stack traces for the logs, and classification sentinels attached
// with Mark stay matchable by errors.Is all the way up to the caller.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr to err as its classification. The sentinel is placed
// in the unwrap chain, so plain errors.Is(err, markErr) holds — callers and
// tests never need to know which library produced the error.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(cr.Join(err, markErr), markErr)
}

// Is reports whether err carries target, either in its unwrap chain or as a
// Mark. Equivalent to errors.Is for everything this package produces.
func Is(err, target error) bool {
	return cr.Is(err, target)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
