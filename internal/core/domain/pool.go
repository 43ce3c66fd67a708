package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	mm "github.com/tdex-network/tdex-pmm/pkg/marketmaking"
	"github.com/tdex-network/tdex-pmm/pkg/mathutil"
)

const poolAccountPrefix = "pool:"

// Pool defines the Pool entity data structure holding the state of a two asset
// PMM pool. Operations on a Pool are all-or-nothing: when they fail the pool
// is left untouched. A Pool is not safe for concurrent mutation, callers must
// serialize writes (see PoolRepository.UpdatePool).
type Pool struct {
	// ID is a random uuid.
	ID string
	// BaseAsset and QuoteAsset identify the traded pair.
	BaseAsset  string
	QuoteAsset string
	Kind       PoolKind
	Params     Params
	// Maintainer is the ledger account collecting the maintainer fees.
	Maintainer string
	// Reserves are the amounts actually held.
	BaseReserve  *uint256.Int
	QuoteReserve *uint256.Int
	// Targets are the reserves considered balanced.
	BaseTarget  *uint256.Int
	QuoteTarget *uint256.Int
	RStatus     mm.RState
	// ReferencePrice is the last price the pool was mutated with.
	ReferencePrice *uint256.Int
}

// NewPool returns an empty pool for the given pair.
func NewPool(
	baseAsset, quoteAsset string, kind PoolKind, params Params, maintainer string,
) (*Pool, error) {
	if len(baseAsset) <= 0 {
		return nil, invalidParameter("missing base asset")
	}
	if len(quoteAsset) <= 0 {
		return nil, invalidParameter("missing quote asset")
	}
	if baseAsset == quoteAsset {
		return nil, invalidParameter("base and quote asset must differ")
	}
	if !kind.isValid() {
		return nil, invalidParameter("unknown pool kind %d", kind)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(maintainer) <= 0 {
		return nil, invalidParameter("missing maintainer account")
	}

	rStatus := mm.RStatusOne
	if kind == PoolKindVending {
		rStatus = mm.RStatusBelowOne
	}

	return &Pool{
		ID:             uuid.New().String(),
		BaseAsset:      baseAsset,
		QuoteAsset:     quoteAsset,
		Kind:           kind,
		Params:         params.Copy(),
		Maintainer:     maintainer,
		BaseReserve:    mathutil.Zero(),
		QuoteReserve:   mathutil.Zero(),
		BaseTarget:     mathutil.Zero(),
		QuoteTarget:    mathutil.Zero(),
		RStatus:        rStatus,
		ReferencePrice: mathutil.Zero(),
	}, nil
}

// Account returns the ledger account holding the pool funds.
func (p *Pool) Account() string {
	return PoolAccount(p.ID)
}

// PoolAccount returns the ledger account of the pool with the given id.
func PoolAccount(id string) string {
	return poolAccountPrefix + id
}

// IsFunded returns whether both reserves are not empty.
func (p *Pool) IsFunded() bool {
	return !p.BaseReserve.IsZero() && !p.QuoteReserve.IsZero()
}

// Copy returns a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	return &Pool{
		ID:             p.ID,
		BaseAsset:      p.BaseAsset,
		QuoteAsset:     p.QuoteAsset,
		Kind:           p.Kind,
		Params:         p.Params.Copy(),
		Maintainer:     p.Maintainer,
		BaseReserve:    mathutil.Clone(p.BaseReserve),
		QuoteReserve:   mathutil.Clone(p.QuoteReserve),
		BaseTarget:     mathutil.Clone(p.BaseTarget),
		QuoteTarget:    mathutil.Clone(p.QuoteTarget),
		RStatus:        p.RStatus,
		ReferencePrice: mathutil.Clone(p.ReferencePrice),
	}
}

// CheckRStatus verifies the r-status agrees with reserves and targets: ONE
// requires both reserves on target, ABOVE_ONE a base surplus and a quote
// deficit (or none), BELOW_ONE the opposite.
func (p *Pool) CheckRStatus() error {
	base := p.BaseReserve.Cmp(p.BaseTarget)
	quote := p.QuoteReserve.Cmp(p.QuoteTarget)

	var ok bool
	switch p.RStatus {
	case mm.RStatusOne:
		ok = base == 0 && quote == 0
	case mm.RStatusAboveOne:
		ok = base >= 0 && quote <= 0
	case mm.RStatusBelowOne:
		ok = base <= 0 && quote >= 0
	default:
		return mm.ErrInvalidRStatus
	}
	if !ok {
		return fmt.Errorf(
			"%w: %s with base %s/%s and quote %s/%s", ErrRStatusInconsistent,
			p.RStatus,
			mathutil.FormatUnits(p.BaseReserve), mathutil.FormatUnits(p.BaseTarget),
			mathutil.FormatUnits(p.QuoteReserve), mathutil.FormatUnits(p.QuoteTarget),
		)
	}
	return nil
}

// MidPrice returns the marginal price of one base unit in quote given the
// reference price.
func (p *Pool) MidPrice(price *uint256.Int) (*uint256.Int, error) {
	state, err := p.pmmState(price)
	if err != nil {
		return nil, err
	}
	mid, err := mm.MidPrice(state)
	if err != nil {
		return nil, pricingError(err)
	}
	return mid, nil
}

// pmmState builds the pricing snapshot with adjusted targets.
func (p *Pool) pmmState(price *uint256.Int) (mm.PMMState, error) {
	if err := validatePrice(price); err != nil {
		return mm.PMMState{}, err
	}

	state := mm.PMMState{
		I:  mathutil.Clone(price),
		K:  mathutil.Clone(p.Params.K),
		B:  mathutil.Clone(p.BaseReserve),
		Q:  mathutil.Clone(p.QuoteReserve),
		B0: mathutil.Clone(p.BaseTarget),
		Q0: mathutil.Clone(p.QuoteTarget),
		R:  p.RStatus,
	}
	if p.Kind == PoolKindVending {
		state.Q0 = mathutil.Zero()
		state.R = mm.RStatusBelowOne
	}
	if err := mm.AdjustedTarget(&state); err != nil {
		return mm.PMMState{}, pricingError(err)
	}
	return state, nil
}

// adjustTargets stores the targets of the current reserves.
func (p *Pool) adjustTargets(price *uint256.Int) error {
	if p.Kind == PoolKindPrivate && p.RStatus == mm.RStatusOne {
		p.BaseTarget = mathutil.Clone(p.BaseReserve)
		p.QuoteTarget = mathutil.Clone(p.QuoteReserve)
		return nil
	}
	state, err := p.pmmState(price)
	if err != nil {
		return err
	}
	p.BaseTarget, p.QuoteTarget = state.B0, state.Q0
	return nil
}

func validatePrice(price *uint256.Int) error {
	if price == nil || price.IsZero() {
		return invalidParameter("reference price must be positive")
	}
	return nil
}

func validateAmount(amount *uint256.Int, name string) error {
	if amount == nil {
		return invalidParameter("missing %s", name)
	}
	return nil
}
