package timing

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidParams = errors.New("timing: difficulty parameters out of bounds")
	ErrInvalidLimits = errors.New("timing: time limit bounds out of range")
	ErrUnknownPreset = errors.New("timing: unknown difficulty preset")
)
