package energy

// UnfreezeEntry is one pending unfreeze request: amount leaves
// FrozenBalance immediately but is not withdrawable until ExpireTime.
type UnfreezeEntry struct {
	Amount     uint64
	ExpireTime uint64
}

// AccountEnergy is the per-account staked-energy state machine. Zero value
// is a valid, empty account (there is no separate "exists" flag: a freshly
// created account and one that has never been mutated are indistinguishable,
// matching the lifecycle note in the data model).
type AccountEnergy struct {
	FrozenBalance             uint64
	DelegatedFrozenBalance    uint64
	AcquiredDelegatedBalance  uint64

	EnergyUsage           uint64
	LatestConsumeTime     uint64
	FreeEnergyUsage       uint64
	LatestFreeConsumeTime uint64

	UnfreezingList []UnfreezeEntry
}

// EffectiveFrozenBalance is frozen + acquired - delegated, saturating. All
// energy allocation is computed from this value, never from raw
// FrozenBalance.
func (a *AccountEnergy) EffectiveFrozenBalance() uint64 {
	return saturatingSub(saturatingAdd(a.FrozenBalance, a.AcquiredDelegatedBalance), a.DelegatedFrozenBalance)
}

// AvailableForDelegation is frozen - delegated, saturating. Both new
// delegation and StartUnfreeze are bounded by this, never by raw
// FrozenBalance.
func (a *AccountEnergy) AvailableForDelegation() uint64 {
	return saturatingSub(a.FrozenBalance, a.DelegatedFrozenBalance)
}

// EnergyLimit is the account's staked-energy allocation given the network's
// total effective-frozen weight, proportional to its share of that weight
// and clamped to TotalEnergyLimit.
func (a *AccountEnergy) EnergyLimit(totalWeight uint64) uint64 {
	if totalWeight == 0 {
		return 0
	}
	raw := mulDiv(a.EffectiveFrozenBalance(), TotalEnergyLimit, totalWeight)
	if raw > TotalEnergyLimit {
		return TotalEnergyLimit
	}
	return raw
}

// decayedUsage applies the 24h linear-recovery formula to usage given the
// elapsed time since lastConsume, against the supplied window.
func decayedUsage(usage, lastConsume, now, window uint64) uint64 {
	if now <= lastConsume {
		return usage
	}
	elapsed := now - lastConsume
	if elapsed >= window {
		return 0
	}
	return usage - mulDiv(usage, elapsed, window)
}

// FrozenEnergyAvailable is the staked-energy bucket's currently spendable
// amount: limit minus the decayed current usage.
func (a *AccountEnergy) FrozenEnergyAvailable(nowMs, totalWeight uint64) uint64 {
	limit := a.EnergyLimit(totalWeight)
	current := decayedUsage(a.EnergyUsage, a.LatestConsumeTime, nowMs, EnergyRecoveryWindowMs)
	return saturatingSub(limit, current)
}

// FreeEnergyAvailable is the free-quota bucket's currently spendable amount.
func (a *AccountEnergy) FreeEnergyAvailable(nowMs uint64) uint64 {
	current := decayedUsage(a.FreeEnergyUsage, a.LatestFreeConsumeTime, nowMs, EnergyRecoveryWindowMs)
	return saturatingSub(FreeEnergyQuota, current)
}

// ConsumeFrozen consumes up to amount from the staked-energy bucket,
// capped at what is currently available, and returns the quantity actually
// consumed.
func (a *AccountEnergy) ConsumeFrozen(amount, nowMs, totalWeight uint64) uint64 {
	available := a.FrozenEnergyAvailable(nowMs, totalWeight)
	consumed := amount
	if consumed > available {
		consumed = available
	}
	current := decayedUsage(a.EnergyUsage, a.LatestConsumeTime, nowMs, EnergyRecoveryWindowMs)
	a.EnergyUsage = saturatingAdd(current, consumed)
	a.LatestConsumeTime = nowMs
	return consumed
}

// ConsumeFree consumes up to amount from the free-quota bucket, capped at
// what is currently available, and returns the quantity actually consumed.
func (a *AccountEnergy) ConsumeFree(amount, nowMs uint64) uint64 {
	available := a.FreeEnergyAvailable(nowMs)
	consumed := amount
	if consumed > available {
		consumed = available
	}
	current := decayedUsage(a.FreeEnergyUsage, a.LatestFreeConsumeTime, nowMs, EnergyRecoveryWindowMs)
	a.FreeEnergyUsage = saturatingAdd(current, consumed)
	a.LatestFreeConsumeTime = nowMs
	return consumed
}

// ValidateStartUnfreeze checks StartUnfreeze's preconditions without
// mutating anything, so VerifyPhase can reject early without reserving a
// fee against a transaction that could never succeed.
func (a *AccountEnergy) ValidateStartUnfreeze(amount uint64) error {
	if amount == 0 {
		return ErrUnfreezeAmountZero
	}
	if amount > a.AvailableForDelegation() {
		return ErrUnfreezeDelegatedTOS
	}
	if len(a.UnfreezingList) >= MaxUnfreezingListSize {
		return ErrUnfreezingListFull
	}
	return nil
}

// StartUnfreeze enqueues an unfreeze request of amount, decrementing
// FrozenBalance immediately. The caller is responsible for removing amount
// from GlobalEnergyState's total weight in the same batch.
func (a *AccountEnergy) StartUnfreeze(amount, nowMs uint64) error {
	if err := a.ValidateStartUnfreeze(amount); err != nil {
		return err
	}

	a.UnfreezingList = append(a.UnfreezingList, UnfreezeEntry{
		Amount:     amount,
		ExpireTime: saturatingAdd(nowMs, UnfreezeDelayMs),
	})
	a.FrozenBalance -= amount
	return nil
}

// WithdrawExpiredUnfreeze removes every queue entry whose ExpireTime has
// passed, returning the sum withdrawn. Entries not yet expired are kept,
// in order.
func (a *AccountEnergy) WithdrawExpiredUnfreeze(nowMs uint64) uint64 {
	var withdrawn uint64
	remaining := a.UnfreezingList[:0]
	for _, e := range a.UnfreezingList {
		if e.ExpireTime <= nowMs {
			withdrawn = saturatingAdd(withdrawn, e.Amount)
		} else {
			remaining = append(remaining, e)
		}
	}
	a.UnfreezingList = remaining
	return withdrawn
}

// CancelAllUnfreeze drains the entire queue. Entries already expired are
// reported as withdrawn (spendable immediately); unexpired entries are
// reported as cancelled and credited back to FrozenBalance. The caller
// must add cancelled back to the global weight.
func (a *AccountEnergy) CancelAllUnfreeze(nowMs uint64) (withdrawn, cancelled uint64) {
	for _, e := range a.UnfreezingList {
		if e.ExpireTime <= nowMs {
			withdrawn = saturatingAdd(withdrawn, e.Amount)
		} else {
			cancelled = saturatingAdd(cancelled, e.Amount)
		}
	}
	a.FrozenBalance = saturatingAdd(a.FrozenBalance, cancelled)
	a.UnfreezingList = nil
	return withdrawn, cancelled
}
