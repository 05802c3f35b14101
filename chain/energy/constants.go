// Package energy implements the staked-energy resource model: per-account
// energy allocation, 24-hour linear decay recovery, the bounded unfreeze
// queue, and inter-account delegation.
package energy

// CoinValue is the number of indivisible sub-units per whole coin. All
// arithmetic below operates in sub-units.
const CoinValue uint64 = 100_000_000

const (
	// EnergyRecoveryWindowMs is the 24-hour window over which consumed
	// energy linearly decays back to zero.
	EnergyRecoveryWindowMs uint64 = 86_400_000

	// UnfreezeDelayMs is the fixed delay between starting an unfreeze and
	// the amount becoming withdrawable.
	UnfreezeDelayMs uint64 = 14 * 86_400_000

	// MaxUnfreezingListSize bounds the number of pending unfreeze entries
	// an account may hold at once.
	MaxUnfreezingListSize = 32

	// MinDelegationAmount is the smallest stake that may be delegated.
	MinDelegationAmount uint64 = CoinValue

	// MaxDelegateLockDays bounds how long a delegation may be locked.
	MaxDelegateLockDays uint32 = 365

	// TotalEnergyLimit is the network-wide energy budget distributed
	// proportionally to stake share.
	TotalEnergyLimit uint64 = 18_400_000_000

	// FreeEnergyQuota is the daily per-account allowance independent of
	// stake.
	FreeEnergyQuota uint64 = 1_500

	// CoinPerEnergy is the number of coin sub-units burned per energy unit
	// when free and staked energy are exhausted.
	CoinPerEnergy uint64 = 100
)
