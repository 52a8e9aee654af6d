package service

import "errors"

// ErrInvalidInput is wrapped by service methods when a request fails domain
// validation (bad amounts, non-member payers, overpayments). The API layer
// maps it to a 400-class response.
var ErrInvalidInput = errors.New("invalid input")
