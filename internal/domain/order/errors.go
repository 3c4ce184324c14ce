package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrNotParticipant  = errors.New("not a participant of this order")
	ErrOwnProduct      = errors.New("cannot order your own product")
	ErrInvalidStatus   = errors.New("invalid order status for this operation")
	ErrAlreadyReleased = errors.New("escrow already released")
	ErrInvalidQuantity = errors.New("invalid quantity")
)
