package energy

import "testing"

func TestEnergyLimit_BasicAllocation_1000TosIn10M(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000 * CoinValue}
	totalWeight := 10_000_000 * CoinValue

	got := a.EnergyLimit(totalWeight)
	want := uint64(1_840_000)
	if got != want {
		t.Fatalf("EnergyLimit() = %d, want %d", got, want)
	}
}

func TestEnergyLimit_ZeroTotalWeight(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000 * CoinValue}
	if got := a.EnergyLimit(0); got != 0 {
		t.Fatalf("EnergyLimit(0) = %d, want 0", got)
	}
}

func TestEnergyLimit_ZeroFrozenBalance(t *testing.T) {
	a := &AccountEnergy{}
	if got := a.EnergyLimit(10_000_000 * CoinValue); got != 0 {
		t.Fatalf("EnergyLimit() = %d, want 0", got)
	}
}

func TestEnergyLimit_AcquiredDelegationOnly(t *testing.T) {
	a := &AccountEnergy{AcquiredDelegatedBalance: 1000 * CoinValue}
	got := a.EnergyLimit(10_000_000 * CoinValue)
	if got == 0 {
		t.Fatalf("EnergyLimit() = 0, want nonzero from acquired-only effective balance")
	}
}

func TestEnergyLimit_ClampedToTotalEnergyLimit(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 10_000_000 * CoinValue}
	got := a.EnergyLimit(1) // degenerate tiny total_weight inflates raw far past the cap
	if got != TotalEnergyLimit {
		t.Fatalf("EnergyLimit() = %d, want clamp to %d", got, TotalEnergyLimit)
	}
}

func TestEffectiveFrozenBalance(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 100, AcquiredDelegatedBalance: 50, DelegatedFrozenBalance: 30}
	if got, want := a.EffectiveFrozenBalance(), uint64(120); got != want {
		t.Fatalf("EffectiveFrozenBalance() = %d, want %d", got, want)
	}
}

func Test24HourRecovery_HalfWindowElapsed(t *testing.T) {
	a := &AccountEnergy{
		FrozenBalance:     1_000_000 * CoinValue,
		EnergyUsage:       1_000,
		LatestConsumeTime: 0,
	}
	totalWeight := 10_000_000 * CoinValue
	now := EnergyRecoveryWindowMs / 2 // 12h

	limit := a.EnergyLimit(totalWeight)
	available := a.FrozenEnergyAvailable(now, totalWeight)
	wantAvailable := limit - 500
	if available != wantAvailable {
		t.Fatalf("FrozenEnergyAvailable() = %d, want %d", available, wantAvailable)
	}
}

func TestDecay_FullWindowElapsedZeroesUsage(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1_000 * CoinValue, EnergyUsage: 500, LatestConsumeTime: 0}
	totalWeight := 1_000 * CoinValue
	available := a.FrozenEnergyAvailable(EnergyRecoveryWindowMs, totalWeight)
	limit := a.EnergyLimit(totalWeight)
	if available != limit {
		t.Fatalf("available after full window = %d, want full limit %d (usage decayed to 0)", available, limit)
	}
}

func TestConsumeFrozen_CapsAtAvailable(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000 * CoinValue}
	totalWeight := 10_000_000 * CoinValue
	limit := a.EnergyLimit(totalWeight)

	consumed := a.ConsumeFrozen(limit+1_000_000, 0, totalWeight)
	if consumed != limit {
		t.Fatalf("ConsumeFrozen() consumed %d, want cap at limit %d", consumed, limit)
	}
	if avail := a.FrozenEnergyAvailable(0, totalWeight); avail != 0 {
		t.Fatalf("available after exhausting = %d, want 0", avail)
	}
}

func TestConsumeFrozen_UpdatesReferenceTime(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000 * CoinValue}
	totalWeight := 10_000_000 * CoinValue
	a.ConsumeFrozen(10, 5_000, totalWeight)
	if a.LatestConsumeTime != 5_000 {
		t.Fatalf("LatestConsumeTime = %d, want 5000", a.LatestConsumeTime)
	}
}

func TestConsumeFree_IndependentOfFrozen(t *testing.T) {
	a := &AccountEnergy{}
	consumed := a.ConsumeFree(100, 0)
	if consumed != 100 {
		t.Fatalf("ConsumeFree() = %d, want 100", consumed)
	}
	if a.FreeEnergyAvailable(0) != FreeEnergyQuota-100 {
		t.Fatalf("FreeEnergyAvailable() = %d, want %d", a.FreeEnergyAvailable(0), FreeEnergyQuota-100)
	}
	// Frozen bucket untouched.
	if a.EnergyUsage != 0 {
		t.Fatalf("EnergyUsage = %d, want 0 (buckets independent)", a.EnergyUsage)
	}
}

func TestStartUnfreeze_ZeroAmountRejected(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 100}
	if err := a.StartUnfreeze(0, 0); err != ErrUnfreezeAmountZero {
		t.Fatalf("StartUnfreeze(0) error = %v, want %v", err, ErrUnfreezeAmountZero)
	}
}

func TestStartUnfreeze_RejectsDelegatedPortion(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 100, DelegatedFrozenBalance: 80}
	if err := a.StartUnfreeze(50, 0); err != ErrUnfreezeDelegatedTOS {
		t.Fatalf("StartUnfreeze() error = %v, want %v", err, ErrUnfreezeDelegatedTOS)
	}
	if a.FrozenBalance != 100 {
		t.Fatalf("FrozenBalance mutated on rejected unfreeze: %d", a.FrozenBalance)
	}
}

func TestUnfreezeQueue_CapEnforced(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: MaxUnfreezingListSize * CoinValue * 2}
	for i := 0; i < MaxUnfreezingListSize; i++ {
		if err := a.StartUnfreeze(CoinValue, 0); err != nil {
			t.Fatalf("StartUnfreeze() call %d: %v", i, err)
		}
	}
	frozenBefore := a.FrozenBalance
	lenBefore := len(a.UnfreezingList)

	if err := a.StartUnfreeze(CoinValue, 0); err != ErrUnfreezingListFull {
		t.Fatalf("33rd StartUnfreeze() error = %v, want %v", err, ErrUnfreezingListFull)
	}
	if a.FrozenBalance != frozenBefore || len(a.UnfreezingList) != lenBefore {
		t.Fatalf("rejected unfreeze mutated state: frozen %d->%d, len %d->%d",
			frozenBefore, a.FrozenBalance, lenBefore, len(a.UnfreezingList))
	}
}

func TestUnfreezeDelay(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 5_000}
	if err := a.StartUnfreeze(500, 0); err != nil {
		t.Fatalf("StartUnfreeze(): %v", err)
	}
	if got := a.WithdrawExpiredUnfreeze(UnfreezeDelayMs - 1); got != 0 {
		t.Fatalf("WithdrawExpiredUnfreeze(delay-1) = %d, want 0", got)
	}
	if got := a.WithdrawExpiredUnfreeze(UnfreezeDelayMs); got != 500 {
		t.Fatalf("WithdrawExpiredUnfreeze(delay) = %d, want 500", got)
	}
	if len(a.UnfreezingList) != 0 {
		t.Fatalf("queue not drained after withdrawal: %d entries remain", len(a.UnfreezingList))
	}
}

func TestWithdrawExpiredUnfreeze_PreservesUnexpiredOrder(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000}
	a.StartUnfreeze(100, 0)
	a.StartUnfreeze(200, 5)
	a.StartUnfreeze(300, 10)

	withdrawn := a.WithdrawExpiredUnfreeze(UnfreezeDelayMs + 5)
	if withdrawn != 300 { // only the first two entries (expire at delay, delay+5) qualify
		t.Fatalf("withdrawn = %d, want 300", withdrawn)
	}
	if len(a.UnfreezingList) != 1 || a.UnfreezingList[0].Amount != 300 {
		t.Fatalf("remaining queue = %+v, want single 300 entry", a.UnfreezingList)
	}
}

func TestCancelAllUnfreeze_SplitsExpiredAndCancelled(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 1000}
	a.StartUnfreeze(100, 0)
	a.StartUnfreeze(200, UnfreezeDelayMs) // expires later, at 2*delay

	withdrawn, cancelled := a.CancelAllUnfreeze(UnfreezeDelayMs)
	if withdrawn != 100 {
		t.Fatalf("withdrawn = %d, want 100", withdrawn)
	}
	if cancelled != 200 {
		t.Fatalf("cancelled = %d, want 200", cancelled)
	}
	if a.FrozenBalance != 700+200 { // started at 1000, -100, -200, then +200 cancelled back
		t.Fatalf("FrozenBalance = %d, want 900", a.FrozenBalance)
	}
	if len(a.UnfreezingList) != 0 {
		t.Fatalf("queue not drained: %d entries remain", len(a.UnfreezingList))
	}
}

func TestUnfreezeExpireTimeSaturates(t *testing.T) {
	a := &AccountEnergy{FrozenBalance: 100}
	if err := a.StartUnfreeze(10, ^uint64(0)); err != nil {
		t.Fatalf("StartUnfreeze(): %v", err)
	}
	if got := a.UnfreezingList[0].ExpireTime; got != ^uint64(0) {
		t.Fatalf("ExpireTime = %d, want saturated MaxUint64", got)
	}
}
