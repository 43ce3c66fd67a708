package pricefeederinfra

import "errors"

var (
	// ErrMissingPriceRepository is returned when the feeder is built without
	// a price repository.
	ErrMissingPriceRepository = errors.New("missing price repository")
	// ErrMissingPriceSource is returned when the feeder is built without a
	// price source.
	ErrMissingPriceSource = errors.New("missing price source")
	// ErrSourceUnavailable is returned while the circuit breaker guarding a
	// price source is open.
	ErrSourceUnavailable = errors.New("price source temporarily unavailable")
)
