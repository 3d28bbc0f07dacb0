package appointment

import "errors"

var (
	ErrInvalidAppointment = errors.New("invalid appointment")
)
