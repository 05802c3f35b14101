package txexec

import (
	"errors"
	"fmt"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/storage"
	"quantum-energy-chain/chain/types"
)

var (
	ErrInsufficientBalance  = errors.New("txexec: balance insufficient for transfer amount plus fee_limit")
	ErrFeeLimitTooLow       = errors.New("txexec: fee_limit is below the required burn for this transaction")
	ErrInvalidFreezeAmount  = errors.New("txexec: freeze amount must be a positive whole-coin multiple")
)

// Ledger is the spendable-balance view VerifyPhase/ApplyPhase mutate. It is
// deliberately narrow (uint64 sub-units, no error returns) so it can be
// backed directly by the teacher's existing StateDB balance methods via a
// thin adapter, or by an in-memory map in tests.
type Ledger interface {
	Balance(addr types.Address) uint64
	SetBalance(addr types.Address, balance uint64)
}

// Reservation is what VerifyPhase hands ApplyPhase: the fee_limit already
// deducted from the sender's spendable balance, and the payload it was
// computed against.
type Reservation struct {
	Sender   types.Address
	FeeLimit uint64
	Payload  *Payload
}

// VerifyContext bundles the read-only inputs VerifyPhase consults.
type VerifyContext struct {
	Provider    storage.Provider
	Ledger      Ledger
	Global      *energy.GlobalEnergyState
	Delegations *energy.DelegationTable
	Calculator  *fee.EnergyFeeCalculator
	NowMs       uint64
}

// VerifyPhase runs every check in §4.7 in order. On the first failure it
// returns an error and mutates nothing. On success it reserves FeeLimit
// against the sender's spendable balance (the one permitted mutation) and
// returns a Reservation for ApplyPhase to consume.
func VerifyPhase(ctx *VerifyContext, p *Payload) (*Reservation, error) {
	if !p.Kind.supported() {
		return nil, ErrUnsupportedPayload
	}
	if p.Sender.IsZero() {
		return nil, energy.ErrZeroAddress
	}

	// 1. Balance >= transfer_amount + fee_limit.
	required := saturatingAdd(p.TransferAmount, p.FeeLimit)
	if ctx.Ledger.Balance(p.Sender) < required {
		return nil, ErrInsufficientBalance
	}

	senderAcct, err := storage.LoadAccountEnergy(ctx.Provider, p.Sender)
	if err != nil {
		return nil, fmt.Errorf("txexec: load sender account energy: %w", err)
	}

	// 2. Freeze preconditions.
	if p.Kind == PayloadFreeze {
		if p.Amount < energy.CoinValue || p.Amount%energy.CoinValue != 0 {
			return nil, ErrInvalidFreezeAmount
		}
	}

	// 3. Delegate preconditions.
	if p.Kind == PayloadDelegate {
		if err := energy.ValidateDelegate(senderAcct, p.Sender, p.To, p.DelegationAmount, p.LockDays); err != nil {
			return nil, err
		}
	}

	// 4. Unfreeze preconditions, including queue capacity.
	if p.Kind == PayloadUnfreeze {
		if err := senderAcct.ValidateStartUnfreeze(p.Amount); err != nil {
			return nil, err
		}
	}

	// 5. Undelegate: lock expiry.
	if p.Kind == PayloadUndelegate {
		rec, ok := ctx.Delegations.Get(p.Sender, p.To)
		if !ok {
			return nil, energy.ErrDelegationNotFound
		}
		if !rec.CanUndelegate(ctx.NowMs) {
			return nil, energy.ErrDelegationLocked
		}
		if p.DelegationAmount > rec.Amount {
			return nil, energy.ErrUndelegateExceeds
		}
	}

	// 6. Hard fee cap: estimate required burn at this instant using the
	// free+frozen availability as it stands right now. No min(required,
	// fee_limit) partial-payment path exists — exceeding the cap is a
	// straight rejection.
	if p.Kind.feeCosted() {
		requiredEnergy := ctx.Calculator.Cost(p.Kind.feeKind(), p.costParams())
		freeAvail := senderAcct.FreeEnergyAvailable(ctx.NowMs)
		frozenAvail := senderAcct.FrozenEnergyAvailable(ctx.NowMs, ctx.Global.TotalEnergyWeight)

		var shortfall uint64
		if covered := freeAvail + frozenAvail; covered < requiredEnergy {
			shortfall = requiredEnergy - covered
		}
		requiredBurn := fee.RequiredBurnCoin(shortfall)
		if requiredBurn > p.FeeLimit {
			return nil, ErrFeeLimitTooLow
		}
	}

	// Reserve fee_limit. This is the only state mutation VerifyPhase makes.
	ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)-p.FeeLimit)

	return &Reservation{Sender: p.Sender, FeeLimit: p.FeeLimit, Payload: p}, nil
}

// feeCosted reports whether a kind goes through the energy fee engine at
// all (the six zero-cost energy-ops kinds still must obey the hard-cap
// check trivially since their cost is always 0, but computing it is free).
func (k PayloadKind) feeCosted() bool {
	return k.supported()
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}
