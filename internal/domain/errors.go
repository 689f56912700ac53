package domain

import "errors"

// ErrValidation tags malformed or incomplete request input.
var ErrValidation = errors.New("validation failed")

// MessageResponse is the JSON body of every error and of plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}
