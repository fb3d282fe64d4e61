package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownGenre is returned when a genre name is not in the provider table.
var ErrUnknownGenre = errors.New("catalog: unknown genre")

// HTTPStatusError reports a non-2xx answer from the catalog.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "catalog: HTTP status error"
	}
	return fmt.Sprintf("catalog: upstream returned %d", e.StatusCode)
}
