package pipeline

import "errors"

// ErrMissingURL is returned when an audit request carries no URL.
var ErrMissingURL = errors.New("URL not provided")
