package fixture

import "errors"

// ErrInvalidArgument is returned when a generator receives an argument
// outside its domain, such as a negative vector length.
var ErrInvalidArgument = errors.New("fixture: invalid argument")
