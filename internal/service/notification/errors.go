package notification

import "errors"

var (
	ErrNoRecipient  = errors.New("patient has no reachable contact")
	ErrInvalidPhone = errors.New("contact is not a valid phone number")
)
