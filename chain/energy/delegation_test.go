package energy

import (
	"testing"

	"quantum-energy-chain/chain/types"
)

func addr(b byte) types.Address {
	var a types.Address
	a[19] = b
	return a
}

func TestDelegation_PreservesFrozenBalance(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 10_000 * CoinValue}
	bob := &AccountEnergy{}
	aliceAddr, bobAddr := addr(1), addr(2)

	if err := table.Delegate(alice, bob, aliceAddr, bobAddr, 5_000*CoinValue, 0, 0); err != nil {
		t.Fatalf("Delegate(): %v", err)
	}

	if alice.FrozenBalance != 10_000*CoinValue {
		t.Fatalf("alice.FrozenBalance = %d, want unchanged 10000*COIN_VALUE", alice.FrozenBalance)
	}
	if got, want := alice.EffectiveFrozenBalance(), 5_000*CoinValue; got != want {
		t.Fatalf("alice.EffectiveFrozenBalance() = %d, want %d", got, want)
	}
	if got, want := bob.EffectiveFrozenBalance(), 5_000*CoinValue; got != want {
		t.Fatalf("bob.EffectiveFrozenBalance() = %d, want %d", got, want)
	}
	sum := alice.EffectiveFrozenBalance() + bob.EffectiveFrozenBalance()
	if sum != 10_000*CoinValue {
		t.Fatalf("sum of effective balances = %d, want unchanged 10000*COIN_VALUE", sum)
	}
}

func TestDelegation_ChecksAvailableNotFrozen(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 1_000 * CoinValue, DelegatedFrozenBalance: 900 * CoinValue}
	bob := &AccountEnergy{}

	// Only 100*COIN_VALUE is available for further delegation even though
	// frozen_balance itself is 1000*COIN_VALUE.
	err := table.Delegate(alice, bob, addr(1), addr(2), 200*CoinValue, 0, 0)
	if err != ErrDelegationInsufficient {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrDelegationInsufficient)
	}
}

func TestDelegation_SelfDelegationRejected(t *testing.T) {
	table := NewDelegationTable()
	a := &AccountEnergy{FrozenBalance: 1_000 * CoinValue}
	same := addr(1)
	if err := table.Delegate(a, a, same, same, CoinValue, 0, 0); err != ErrSelfDelegation {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrSelfDelegation)
	}
}

func TestDelegation_RejectsZeroAddress(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 1_000 * CoinValue}
	bob := &AccountEnergy{}
	err := table.Delegate(alice, bob, types.ZeroAddress, addr(2), CoinValue, 0, 0)
	if err != ErrZeroAddress {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrZeroAddress)
	}
}

func TestDelegation_BelowMinimumRejected(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 1_000 * CoinValue}
	bob := &AccountEnergy{}
	if err := table.Delegate(alice, bob, addr(1), addr(2), MinDelegationAmount-1, 0, 0); err != ErrDelegationTooSmall {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrDelegationTooSmall)
	}
}

func TestDelegation_NotWholeCoinRejected(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 1_000 * CoinValue}
	bob := &AccountEnergy{}
	if err := table.Delegate(alice, bob, addr(1), addr(2), CoinValue+1, 0, 0); err != ErrDelegationNotWhole {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrDelegationNotWhole)
	}
}

func TestDelegation_LockDaysExceedsMaxRejected(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 1_000 * CoinValue}
	bob := &AccountEnergy{}
	if err := table.Delegate(alice, bob, addr(1), addr(2), CoinValue, MaxDelegateLockDays+1, 0); err != ErrLockDaysExceedsMax {
		t.Fatalf("Delegate() error = %v, want %v", err, ErrLockDaysExceedsMax)
	}
}

func TestDelegateThenUndelegate_RestoresEffectiveBalance(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 10_000 * CoinValue}
	bob := &AccountEnergy{}
	aliceAddr, bobAddr := addr(1), addr(2)

	if err := table.Delegate(alice, bob, aliceAddr, bobAddr, 5_000*CoinValue, 30, 0); err != nil {
		t.Fatalf("Delegate(): %v", err)
	}

	rec, ok := table.Get(aliceAddr, bobAddr)
	if !ok {
		t.Fatal("delegation record not found")
	}

	// Too early.
	if err := table.Undelegate(alice, bob, aliceAddr, bobAddr, 5_000*CoinValue, rec.ExpireTime-1); err != ErrDelegationLocked {
		t.Fatalf("Undelegate() before expiry error = %v, want %v", err, ErrDelegationLocked)
	}

	frozenBefore := alice.FrozenBalance
	if err := table.Undelegate(alice, bob, aliceAddr, bobAddr, 5_000*CoinValue, rec.ExpireTime); err != nil {
		t.Fatalf("Undelegate() at expiry: %v", err)
	}

	if alice.FrozenBalance != frozenBefore {
		t.Fatalf("alice.FrozenBalance changed across delegate/undelegate: %d -> %d", frozenBefore, alice.FrozenBalance)
	}
	if got, want := alice.EffectiveFrozenBalance(), 10_000*CoinValue; got != want {
		t.Fatalf("alice.EffectiveFrozenBalance() after undelegate = %d, want %d", got, want)
	}
	if got, want := bob.EffectiveFrozenBalance(), uint64(0); got != want {
		t.Fatalf("bob.EffectiveFrozenBalance() after undelegate = %d, want %d", got, want)
	}
}

func TestUndelegate_ExceedsOutstandingRejected(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 10_000 * CoinValue}
	bob := &AccountEnergy{}
	aliceAddr, bobAddr := addr(1), addr(2)
	table.Delegate(alice, bob, aliceAddr, bobAddr, 1_000*CoinValue, 0, 0)

	if err := table.Undelegate(alice, bob, aliceAddr, bobAddr, 2_000*CoinValue, 0); err != ErrUndelegateExceeds {
		t.Fatalf("Undelegate() error = %v, want %v", err, ErrUndelegateExceeds)
	}
}

func TestDelegators_ReverseIndex(t *testing.T) {
	table := NewDelegationTable()
	alice := &AccountEnergy{FrozenBalance: 10_000 * CoinValue}
	carol := &AccountEnergy{FrozenBalance: 10_000 * CoinValue}
	bob := &AccountEnergy{}
	aliceAddr, carolAddr, bobAddr := addr(1), addr(3), addr(2)

	table.Delegate(alice, bob, aliceAddr, bobAddr, CoinValue, 0, 0)
	table.Delegate(carol, bob, carolAddr, bobAddr, CoinValue, 0, 0)

	delegators := table.Delegators(bobAddr)
	if len(delegators) != 2 {
		t.Fatalf("Delegators() returned %d entries, want 2", len(delegators))
	}
}
