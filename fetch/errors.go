package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocalAccess is returned when a remote document refers to a file:// URL.
// Only local stylesheets may pull local files.
var ErrLocalAccess = errors.New("local file access from remote origin")

// Error is returned when resource could not be retrieved: either transport
// failed or server responded with non-success status.
type Error struct {
	// Name is file name the resource was requested for, empty for stylesheet.
	Name       string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("unable to fetch ")
	if e.Name != "" {
		fmt.Fprintf(&sb, "%s from ", e.Name)
	}
	sb.WriteString(e.URL)
	switch {
	case e.Err != nil:
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	case e.Status != "":
		sb.WriteString(": ")
		sb.WriteString(e.Status)
	default:
		fmt.Fprintf(&sb, ": status %d", e.StatusCode)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
