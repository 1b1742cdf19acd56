package property

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrForbidden        = errors.New("not allowed to view this property")
)
