package users

import "errors"

// ErrInvalidSharding is returned by ParseSharding for names that do not
// correspond to any Sharding variant.
var ErrInvalidSharding = errors.New("users: invalid sharding")
