package fee

import "quantum-energy-chain/chain/energy"

// EnergyResourceManager orchestrates the free -> staked -> coin-burn
// consumption order for a required energy amount, mutating the account's
// buckets and returning the four-way breakdown the rest of the pipeline
// needs to compute fees and refunds.
type EnergyResourceManager struct{}

// NewEnergyResourceManager returns a ready-to-use manager. It holds no
// state of its own; all mutation happens on the AccountEnergy/
// GlobalEnergyState passed to Consume.
func NewEnergyResourceManager() *EnergyResourceManager {
	return &EnergyResourceManager{}
}

// Consume charges required energy units against acct's free bucket first,
// then its staked bucket, then burns coin for whatever remains. It returns
// the resulting TransactionResult; free_used + frozen_used + fee/CoinPerEnergy
// always equals required.
func (m *EnergyResourceManager) Consume(acct *energy.AccountEnergy, global *energy.GlobalEnergyState, required, nowMs uint64) energy.TransactionResult {
	remaining := required

	free := acct.ConsumeFree(remaining, nowMs)
	remaining -= free

	frozen := acct.ConsumeFrozen(remaining, nowMs, global.TotalEnergyWeight)
	remaining -= frozen

	burnCoin := remaining * energy.CoinPerEnergy

	return energy.TransactionResult{
		Fee:              burnCoin,
		EnergyUsed:       free + frozen + remaining,
		FreeEnergyUsed:   free,
		FrozenEnergyUsed: frozen,
	}
}
