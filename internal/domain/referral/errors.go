package referral

import "errors"

var (
	ErrReferralNotFound = errors.New("referral not found")
	ErrAlreadyReferred  = errors.New("user already referred")
	ErrSelfReferral     = errors.New("cannot refer yourself")
)
