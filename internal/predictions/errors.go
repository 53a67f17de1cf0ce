package predictions

import "errors"

var ErrModelNotLoaded = errors.New("model not loaded")

const (
	ErrorCodeValidation     = "validation_error"
	ErrorCodeModelNotLoaded = "model_not_loaded"
	ErrorCodeInternal       = "internal_error"
)
