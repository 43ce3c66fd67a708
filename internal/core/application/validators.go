package application

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-pmm/internal/core/domain"
)

var assetRegexp = regexp.MustCompile(`^[0-9A-Za-z]{1,64}$`)

func validateAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf(
			"%w: amount must be greater than zero", domain.ErrInvalidParameter,
		)
	}
	return nil
}

func validateAssetString(asset string) error {
	if !assetRegexp.MatchString(asset) {
		return fmt.Errorf(
			"%w: %s", domain.ErrInvalidParameter,
			errors.New(asset+" is an invalid asset string"),
		)
	}
	return nil
}
