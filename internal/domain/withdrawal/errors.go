package withdrawal

import "errors"

var (
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrBelowMinimum       = errors.New("amount below minimum withdrawal")
	ErrAboveMaximum       = errors.New("amount above maximum withdrawal")
	ErrNotPending         = errors.New("withdrawal is not pending")
)
