package energy

import "quantum-energy-chain/chain/types"

// requireNonZero rejects the zero address as a delegation or transfer
// participant. Every entry point in this package that accepts an address
// funnels through here so the zero-address guard can't be forgotten on one
// path and present on another.
func requireNonZero(addr types.Address) error {
	if addr.IsZero() {
		return ErrZeroAddress
	}
	return nil
}
