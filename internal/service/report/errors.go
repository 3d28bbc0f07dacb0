package report

import "errors"

var ErrEmptyReport = errors.New("report content is required")
