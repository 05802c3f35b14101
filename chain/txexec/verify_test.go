package txexec

import (
	"path/filepath"
	"testing"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/storage"
	"quantum-energy-chain/chain/types"

	"github.com/syndtr/goleveldb/leveldb"
)

func testAddr(b byte) types.Address {
	var a types.Address
	a[19] = b
	return a
}

func newTestContext(t *testing.T) (*VerifyContext, storage.Provider) {
	t.Helper()
	db, err := leveldb.OpenFile(filepath.Join(t.TempDir(), "txexec-store"), nil)
	if err != nil {
		t.Fatalf("leveldb.OpenFile(): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	p := storage.NewLevelDBProvider(db)

	ctx := &VerifyContext{
		Provider:    p,
		Ledger:      memLedger{},
		Global:      energy.NewGlobalEnergyState(),
		Delegations: energy.NewDelegationTable(),
		Calculator:  fee.NewEnergyFeeCalculator(),
		NowMs:       0,
	}
	return ctx, p
}

func TestVerifyPhase_InsufficientBalanceRejected(t *testing.T) {
	ctx, _ := newTestContext(t)
	sender := testAddr(1)
	ctx.Ledger.SetBalance(sender, 100)

	p := &Payload{Kind: PayloadTransfer, Sender: sender, TransferAmount: 50, FeeLimit: 60}
	if _, err := VerifyPhase(ctx, p); err != ErrInsufficientBalance {
		t.Fatalf("VerifyPhase() error = %v, want %v", err, ErrInsufficientBalance)
	}
	if ctx.Ledger.Balance(sender) != 100 {
		t.Fatalf("balance mutated on rejected verify: %d", ctx.Ledger.Balance(sender))
	}
}

func TestVerifyPhase_ReservesFeeLimitOnAcceptance(t *testing.T) {
	ctx, _ := newTestContext(t)
	sender := testAddr(1)
	ctx.Ledger.SetBalance(sender, 1_000)

	p := &Payload{Kind: PayloadTransfer, Sender: sender, TransferAmount: 100, FeeLimit: 200, TxSizeBytes: 10}
	res, err := VerifyPhase(ctx, p)
	if err != nil {
		t.Fatalf("VerifyPhase(): %v", err)
	}
	if res.FeeLimit != 200 {
		t.Fatalf("Reservation.FeeLimit = %d, want 200", res.FeeLimit)
	}
	if got, want := ctx.Ledger.Balance(sender), uint64(800); got != want {
		t.Fatalf("balance after reservation = %d, want %d", got, want)
	}
}

func TestVerifyPhase_HardFeeCapRejectsRatherThanPartial(t *testing.T) {
	ctx, _ := newTestContext(t)
	sender := testAddr(1)
	ctx.Ledger.SetBalance(sender, 1_000_000)

	// No stake, no free quota left after exhausting it: force a large
	// required-energy burn via a big transfer payload (outputs cost).
	p := &Payload{
		Kind:           PayloadTransfer,
		Sender:         sender,
		TransferAmount: 0,
		FeeLimit:       10_000, // too small to cover required_burn
		TxSizeBytes:    100,
		Outputs:        1000, // 100 + 1000*100 = 100100 energy units required
	}

	_, err := VerifyPhase(ctx, p)
	if err != ErrFeeLimitTooLow {
		t.Fatalf("VerifyPhase() error = %v, want %v", err, ErrFeeLimitTooLow)
	}
	if ctx.Ledger.Balance(sender) != 1_000_000 {
		t.Fatalf("balance mutated on rejected verify: %d", ctx.Ledger.Balance(sender))
	}
}

func TestVerifyPhase_FreezeAmountValidation(t *testing.T) {
	ctx, _ := newTestContext(t)
	sender := testAddr(1)
	ctx.Ledger.SetBalance(sender, 1_000_000)

	p := &Payload{Kind: PayloadFreeze, Sender: sender, Amount: energy.CoinValue + 1, FeeLimit: 1_000_000}
	if _, err := VerifyPhase(ctx, p); err != ErrInvalidFreezeAmount {
		t.Fatalf("VerifyPhase() error = %v, want %v", err, ErrInvalidFreezeAmount)
	}
}

func TestVerifyPhase_UnsupportedPayloadRejected(t *testing.T) {
	ctx, _ := newTestContext(t)
	sender := testAddr(1)
	p := &Payload{Kind: PayloadEscrowCreate, Sender: sender}
	if _, err := VerifyPhase(ctx, p); err != ErrUnsupportedPayload {
		t.Fatalf("VerifyPhase() error = %v, want %v", err, ErrUnsupportedPayload)
	}
}

func TestVerifyPhase_ZeroAddressSenderRejected(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := &Payload{Kind: PayloadTransfer, Sender: types.ZeroAddress}
	if _, err := VerifyPhase(ctx, p); err != energy.ErrZeroAddress {
		t.Fatalf("VerifyPhase() error = %v, want %v", err, energy.ErrZeroAddress)
	}
}
