package discovery

import "errors"

// UserMessage is shown to people when a view could not be loaded at all.
const UserMessage = "Unable to load movies. Please try again."

var (
	// ErrCatalogUnavailable marks a total failure: the first page could not be fetched.
	ErrCatalogUnavailable = errors.New("discovery: catalog unavailable")
	// ErrUnknownSort is returned for a sort mode outside SortModes.
	ErrUnknownSort = errors.New("discovery: unknown sort mode")
)
