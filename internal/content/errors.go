package content

import (
	"fmt"
	"strings"
)

type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// LoadError aggregates every file that failed to load.
type LoadError struct {
	Dir   string
	Files []FileError
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "load %s: %d invalid file(s)", e.Dir, len(e.Files))
	for _, f := range e.Files {
		sb.WriteString("\n  ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}
