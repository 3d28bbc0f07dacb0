package prescription

import "errors"

var ErrInvalidPrescription = errors.New("invalid prescription")
