// Package txexec implements the two-phase verify/apply transaction
// pipeline: VerifyPhase reserves a fee_limit against the sender's balance
// with no other mutation, and ApplyPhase mutates state atomically and
// refunds whatever of the reservation was not burned.
package txexec

import (
	"errors"

	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/types"
)

// PayloadKind is the closed set of transaction shapes the pipeline
// recognizes. Kinds beyond the energy-relevant set are named but not
// implemented by this core (escrow/multisig payload execution is external
// collaborator territory); VerifyPhase rejects them with ErrUnsupportedPayload.
type PayloadKind uint8

const (
	PayloadTransfer PayloadKind = iota
	PayloadPrivacyTransfer
	PayloadBurn
	PayloadFreeze
	PayloadUnfreeze
	PayloadWithdraw
	PayloadCancelUnfreeze
	PayloadDelegate
	PayloadUndelegate
	PayloadInvokeContract
	PayloadDeployContract
	PayloadMultiSigSetup
	PayloadEscrowCreate
	PayloadEscrowRelease
)

// ErrUnsupportedPayload is returned for payload kinds this core
// acknowledges exist (per the wider transaction surface) but does not
// execute: escrow/multisig lifecycle management is an external
// collaborator concern.
var ErrUnsupportedPayload = errors.New("txexec: payload kind not supported by the energy core")

// Payload is a tagged-variant transaction body. Exactly the fields its
// Kind needs are populated; the rest are zero.
type Payload struct {
	Kind PayloadKind

	Sender types.Address
	To     types.Address // transfer/delegate/undelegate recipient

	TransferAmount uint64 // coin sub-units moved by Transfer/PrivacyTransfer
	FeeLimit       uint64 // caller-declared max coin sub-units to burn

	Amount           uint64 // Freeze/Unfreeze/Withdraw/CancelUnfreeze amount
	DelegationAmount uint64
	LockDays         uint32

	TxSizeBytes   uint64
	Outputs       uint64
	NewAccounts   uint64
	BytecodeBytes uint64
	MaxGas        uint64
}

// costParams projects a Payload onto the fee calculator's CostParams.
func (p *Payload) costParams() fee.CostParams {
	return fee.CostParams{
		TxSizeBytes:   p.TxSizeBytes,
		Outputs:       p.Outputs,
		NewAccounts:   p.NewAccounts,
		BytecodeBytes: p.BytecodeBytes,
		MaxGas:        p.MaxGas,
	}
}

// feeKind maps a PayloadKind onto the fee calculator's TransactionKind.
// Unsupported kinds are handled by the caller before this is reached.
func (k PayloadKind) feeKind() fee.TransactionKind {
	switch k {
	case PayloadTransfer:
		return fee.KindTransfer
	case PayloadPrivacyTransfer:
		return fee.KindPrivacyTransfer
	case PayloadBurn:
		return fee.KindBurn
	case PayloadFreeze:
		return fee.KindFreeze
	case PayloadUnfreeze:
		return fee.KindUnfreeze
	case PayloadWithdraw:
		return fee.KindWithdraw
	case PayloadCancelUnfreeze:
		return fee.KindCancelUnfreeze
	case PayloadDelegate:
		return fee.KindDelegate
	case PayloadUndelegate:
		return fee.KindUndelegate
	case PayloadInvokeContract:
		return fee.KindContractInvoke
	case PayloadDeployContract:
		return fee.KindContractDeploy
	default:
		return fee.KindTransfer
	}
}

// supported reports whether this core executes the given kind.
func (k PayloadKind) supported() bool {
	switch k {
	case PayloadMultiSigSetup, PayloadEscrowCreate, PayloadEscrowRelease:
		return false
	default:
		return true
	}
}
