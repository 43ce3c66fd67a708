package application

import "errors"

var (
	// ErrMissingRepoManager is returned when a service is built without a
	// repository manager.
	ErrMissingRepoManager = errors.New("missing repo manager")
	// ErrMissingPriceSource is returned when a service is built without a
	// price source.
	ErrMissingPriceSource = errors.New("missing price source")
	// ErrMissingMaintainer is returned when the pool service is built without
	// the account collecting maintainer fees.
	ErrMissingMaintainer = errors.New("missing maintainer account")
	// ErrMissingAccount is returned when an operation moving funds is not told
	// the account to move them from or to.
	ErrMissingAccount = errors.New("missing account")
	// ErrSlippageExceeded is returned when a trade would deliver less than the
	// minimum amount accepted by the trader, or cost more than the maximum.
	ErrSlippageExceeded = errors.New("trade price beyond accepted bound")
	// ErrPriceUnavailable is returned if the reference price of a pool can't
	// be retrieved from the price source.
	ErrPriceUnavailable = errors.New("reference price unavailable, retry later")
)
