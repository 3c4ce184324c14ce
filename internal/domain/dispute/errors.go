package dispute

import "errors"

var (
	ErrDisputeNotFound   = errors.New("dispute not found")
	ErrDisputeExists     = errors.New("order already has a dispute")
	ErrNotOpen           = errors.New("dispute is not open")
	ErrInvalidResolution = errors.New("invalid resolution")
)
