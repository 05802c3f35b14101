package txexec

import (
	"fmt"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/storage"
	"quantum-energy-chain/chain/types"
)

// VotePowerUpdater is the optional governance hook ApplyPhase drives for
// balance-changing payloads, ahead of the balance mutation itself (§4.8:
// vote-power deltas apply before balance mutation, so a later arithmetic
// failure leaves both counters unmodified).
type VotePowerUpdater interface {
	MoveOnTransfer(from, to types.Address, amount uint64, block uint64) error
	// SeedIfZero lazily seeds addr's vote power from currentBalance the
	// first time the index observes it, per §4.10.
	SeedIfZero(addr types.Address, block uint64, currentBalance uint64) error
}

// MetricsRecorder is the optional observability hook ApplyPhase drives
// after a successful commit, matching chain/monitoring.MetricsServer's
// RecordEnergy* gauge setters. nil is a valid ApplyContext.Metrics value
// for offline tooling that has no metrics server to report to.
type MetricsRecorder interface {
	RecordEnergyTotalWeight(weight uint64)
	RecordEnergyFreeQuotaUsed(accountAddress string, used uint64)
	RecordUnfreezeQueueDepth(accountAddress string, depth int)
	RecordDelegationEdgesTotal(total int)
}

// ApplyContext bundles everything ApplyPhase needs to mutate state for one
// transaction. Every field is mutated within a single logical batch.
type ApplyContext struct {
	Batch       storage.Batch
	Provider    storage.Provider
	Ledger      Ledger
	Global      *energy.GlobalEnergyState
	Delegations *energy.DelegationTable
	Calculator  *fee.EnergyFeeCalculator
	Resource    *fee.EnergyResourceManager
	VotePower   VotePowerUpdater // nil if the asset is not governance-enabled
	Metrics     MetricsRecorder  // nil if no metrics server is attached
	BlockHeight uint64
	NowMs       uint64
}

// ApplyPhase assumes reservation came from a successful VerifyPhase call
// against the same payload. It executes the payload's own mutations, runs
// EnergyResourceManager to determine actual consumption, refunds the
// unused portion of the reservation, and stages every write on ctx.Batch.
// The caller commits the batch; on commit failure the whole transaction
// must be treated as if it never ran and the reservation released.
func ApplyPhase(ctx *ApplyContext, reservation *Reservation) (*energy.TransactionResult, error) {
	p := reservation.Payload

	senderAcct, err := storage.LoadAccountEnergy(ctx.Provider, p.Sender)
	if err != nil {
		return nil, fmt.Errorf("txexec: load sender account energy: %w", err)
	}

	if err := applyPayloadMutations(ctx, p, senderAcct); err != nil {
		return nil, err
	}

	var required uint64
	if p.Kind.feeCosted() {
		required = ctx.Calculator.Cost(p.Kind.feeKind(), p.costParams())
	}
	result := ctx.Resource.Consume(senderAcct, ctx.Global, required, ctx.NowMs)

	if err := storage.PutAccountEnergy(ctx.Batch, p.Sender, senderAcct); err != nil {
		return nil, err
	}
	storage.PutGlobalEnergyState(ctx.Batch, ctx.Global)

	refund := reservation.FeeLimit - result.Fee
	ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)+refund)

	if err := ctx.Batch.Commit(); err != nil {
		return nil, fmt.Errorf("txexec: commit batch: %w", err)
	}

	if ctx.Metrics != nil {
		ctx.Metrics.RecordEnergyTotalWeight(ctx.Global.TotalEnergyWeight)
		ctx.Metrics.RecordEnergyFreeQuotaUsed(p.Sender.Hex(), senderAcct.FreeEnergyUsage)
		ctx.Metrics.RecordUnfreezeQueueDepth(p.Sender.Hex(), len(senderAcct.UnfreezingList))
		if p.Kind == PayloadDelegate || p.Kind == PayloadUndelegate {
			ctx.Metrics.RecordDelegationEdgesTotal(ctx.Delegations.EdgeCount())
		}
	}
	return &result, nil
}

// applyPayloadMutations executes the payload-kind-specific state changes
// (transfer, freeze, delegate, ...) ahead of energy consumption.
func applyPayloadMutations(ctx *ApplyContext, p *Payload, senderAcct *energy.AccountEnergy) error {
	switch p.Kind {
	case PayloadTransfer, PayloadPrivacyTransfer:
		if err := requireNonZeroBoth(p.Sender, p.To); err != nil {
			return err
		}
		if ctx.VotePower != nil {
			if err := ctx.VotePower.SeedIfZero(p.Sender, ctx.BlockHeight, ctx.Ledger.Balance(p.Sender)); err != nil {
				return fmt.Errorf("txexec: vote-power seed: %w", err)
			}
			if err := ctx.VotePower.SeedIfZero(p.To, ctx.BlockHeight, ctx.Ledger.Balance(p.To)); err != nil {
				return fmt.Errorf("txexec: vote-power seed: %w", err)
			}
			if err := ctx.VotePower.MoveOnTransfer(p.Sender, p.To, p.TransferAmount, ctx.BlockHeight); err != nil {
				return fmt.Errorf("txexec: vote-power update: %w", err)
			}
		}
		ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)-p.TransferAmount)
		ctx.Ledger.SetBalance(p.To, ctx.Ledger.Balance(p.To)+p.TransferAmount)

	case PayloadBurn:
		ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)-p.TransferAmount)

	case PayloadFreeze:
		senderAcct.FrozenBalance = saturatingAdd(senderAcct.FrozenBalance, p.Amount)
		ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)-p.Amount)
		ctx.Global.AddWeight(p.Amount, ctx.NowMs)

	case PayloadUnfreeze:
		if err := senderAcct.StartUnfreeze(p.Amount, ctx.NowMs); err != nil {
			return err
		}
		ctx.Global.RemoveWeight(p.Amount, ctx.NowMs)

	case PayloadWithdraw:
		withdrawn := senderAcct.WithdrawExpiredUnfreeze(ctx.NowMs)
		ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)+withdrawn)

	case PayloadCancelUnfreeze:
		withdrawn, cancelled := senderAcct.CancelAllUnfreeze(ctx.NowMs)
		ctx.Ledger.SetBalance(p.Sender, ctx.Ledger.Balance(p.Sender)+withdrawn)
		ctx.Global.AddWeight(cancelled, ctx.NowMs)

	case PayloadDelegate:
		toAcct, err := storage.LoadAccountEnergy(ctx.Provider, p.To)
		if err != nil {
			return fmt.Errorf("txexec: load delegatee account energy: %w", err)
		}
		if err := ctx.Delegations.Delegate(senderAcct, toAcct, p.Sender, p.To, p.DelegationAmount, p.LockDays, ctx.NowMs); err != nil {
			return err
		}
		ctx.Batch.Put(storage.DelegatorIndexKey(p.To, p.Sender), []byte{1})
		return storage.PutAccountEnergy(ctx.Batch, p.To, toAcct)

	case PayloadUndelegate:
		toAcct, err := storage.LoadAccountEnergy(ctx.Provider, p.To)
		if err != nil {
			return fmt.Errorf("txexec: load delegatee account energy: %w", err)
		}
		if err := ctx.Delegations.Undelegate(senderAcct, toAcct, p.Sender, p.To, p.DelegationAmount, ctx.NowMs); err != nil {
			return err
		}
		if _, stillActive := ctx.Delegations.Get(p.Sender, p.To); !stillActive {
			ctx.Batch.Delete(storage.DelegatorIndexKey(p.To, p.Sender))
		}
		return storage.PutAccountEnergy(ctx.Batch, p.To, toAcct)

	case PayloadInvokeContract, PayloadDeployContract:
		// Contract execution itself is external collaborator territory
		// (the EVM/VM engine); only its energy cost is this core's concern.

	default:
		return ErrUnsupportedPayload
	}
	return nil
}

func requireNonZeroBoth(a, b types.Address) error {
	if a.IsZero() || b.IsZero() {
		return energy.ErrZeroAddress
	}
	return nil
}
