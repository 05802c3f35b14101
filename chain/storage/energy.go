package storage

import (
	"fmt"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/types"
)

// LoadAccountEnergy reads and decodes an account's energy row, returning a
// zero-value AccountEnergy if the row does not exist yet (per the
// lifecycle note: a freshly created account and an absent one are
// indistinguishable).
func LoadAccountEnergy(p Provider, addr types.Address) (*energy.AccountEnergy, error) {
	raw, err := p.Get(AccountEnergyKey(addr))
	if err == ErrNotFound {
		return &energy.AccountEnergy{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load account energy for %s: %w", addr.Hex(), err)
	}
	acct, err := energy.DecodeAccountEnergy(raw)
	if err != nil {
		return nil, fmt.Errorf("storage: decode account energy for %s: %w", addr.Hex(), err)
	}
	return acct, nil
}

// PutAccountEnergy stages the encoded account energy row on batch.
func PutAccountEnergy(batch Batch, addr types.Address, acct *energy.AccountEnergy) error {
	buf, err := energy.EncodeAccountEnergy(acct)
	if err != nil {
		return fmt.Errorf("storage: encode account energy for %s: %w", addr.Hex(), err)
	}
	batch.Put(AccountEnergyKey(addr), buf)
	return nil
}

// LoadGlobalEnergyState reads the single global-state row, defaulting to
// NewGlobalEnergyState (TotalEnergyLimit seeded, not zero) if absent.
func LoadGlobalEnergyState(p Provider) (*energy.GlobalEnergyState, error) {
	raw, err := p.Get(GlobalEnergyKey())
	if err == ErrNotFound {
		return energy.NewGlobalEnergyState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load global energy state: %w", err)
	}
	return energy.DecodeGlobalEnergyState(raw)
}

// PutGlobalEnergyState stages the encoded global-state row on batch.
func PutGlobalEnergyState(batch Batch, g *energy.GlobalEnergyState) {
	batch.Put(GlobalEnergyKey(), energy.EncodeGlobalEnergyState(g))
}
