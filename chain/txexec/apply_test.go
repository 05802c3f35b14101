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

func newApplyFixture(t *testing.T) (*VerifyContext, *ApplyContext, storage.Provider) {
	t.Helper()
	db, err := leveldb.OpenFile(filepath.Join(t.TempDir(), "txexec-apply-store"), nil)
	if err != nil {
		t.Fatalf("leveldb.OpenFile(): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	p := storage.NewLevelDBProvider(db)
	ledger := memLedger{}
	global := energy.NewGlobalEnergyState()
	delegations := energy.NewDelegationTable()
	calc := fee.NewEnergyFeeCalculator()

	vctx := &VerifyContext{
		Provider:    p,
		Ledger:      ledger,
		Global:      global,
		Delegations: delegations,
		Calculator:  calc,
	}
	actx := &ApplyContext{
		Batch:       p.NewBatch(),
		Provider:    p,
		Ledger:      ledger,
		Global:      global,
		Delegations: delegations,
		Calculator:  calc,
		Resource:    fee.NewEnergyResourceManager(),
	}
	return vctx, actx, p
}

func runPipeline(t *testing.T, vctx *VerifyContext, actx *ApplyContext, p storage.Provider, payload *Payload) (*energy.TransactionResult, error) {
	t.Helper()
	res, err := VerifyPhase(vctx, payload)
	if err != nil {
		return nil, err
	}
	actx.Batch = p.NewBatch()
	return ApplyPhase(actx, res)
}

func TestPipeline_TransferMovesBalanceAndRefunds(t *testing.T) {
	vctx, actx, p := newApplyFixture(t)
	sender, recipient := testAddr(1), testAddr(2)
	vctx.Ledger.SetBalance(sender, 1_000_000)

	payload := &Payload{
		Kind:           PayloadTransfer,
		Sender:         sender,
		To:             recipient,
		TransferAmount: 1_000,
		FeeLimit:       1_000_000,
		TxSizeBytes:    10,
	}
	result, err := runPipeline(t, vctx, actx, p, payload)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	if got := vctx.Ledger.Balance(recipient); got != 1_000 {
		t.Fatalf("recipient balance = %d, want 1000", got)
	}
	// sender started with 1_000_000, sent 1_000, and the fee actually
	// charged should be fully refunded out of the reserved fee_limit.
	wantSenderBalance := 1_000_000 - 1_000 - result.Fee
	if got := vctx.Ledger.Balance(sender); got != wantSenderBalance {
		t.Fatalf("sender balance = %d, want %d (fee=%d)", got, wantSenderBalance, result.Fee)
	}
}

func TestPipeline_FreezeIncreasesFrozenBalanceAndWeight(t *testing.T) {
	vctx, actx, p := newApplyFixture(t)
	sender := testAddr(1)
	vctx.Ledger.SetBalance(sender, 1_000_000)

	payload := &Payload{Kind: PayloadFreeze, Sender: sender, Amount: energy.CoinValue, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, payload); err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	acct, err := storage.LoadAccountEnergy(p, sender)
	if err != nil {
		t.Fatalf("LoadAccountEnergy: %v", err)
	}
	if acct.FrozenBalance != energy.CoinValue {
		t.Fatalf("FrozenBalance = %d, want %d", acct.FrozenBalance, energy.CoinValue)
	}
	if vctx.Global.TotalEnergyWeight != energy.CoinValue {
		t.Fatalf("TotalEnergyWeight = %d, want %d", vctx.Global.TotalEnergyWeight, energy.CoinValue)
	}
}

func TestPipeline_DelegateThenUndelegatePreservesFrozenBalance(t *testing.T) {
	vctx, actx, p := newApplyFixture(t)
	from, to := testAddr(1), testAddr(2)
	vctx.Ledger.SetBalance(from, 10_000_000)

	freeze := &Payload{Kind: PayloadFreeze, Sender: from, Amount: 5 * energy.CoinValue, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, freeze); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	delegate := &Payload{
		Kind:             PayloadDelegate,
		Sender:           from,
		To:               to,
		DelegationAmount: 2 * energy.CoinValue,
		LockDays:         0,
		FeeLimit:         1_000_000,
	}
	if _, err := runPipeline(t, vctx, actx, p, delegate); err != nil {
		t.Fatalf("delegate: %v", err)
	}

	fromAcct, err := storage.LoadAccountEnergy(p, from)
	if err != nil {
		t.Fatalf("LoadAccountEnergy(from): %v", err)
	}
	if fromAcct.FrozenBalance != 5*energy.CoinValue {
		t.Fatalf("FrozenBalance after delegate = %d, want %d (must be untouched)", fromAcct.FrozenBalance, 5*energy.CoinValue)
	}
	if fromAcct.DelegatedFrozenBalance != 2*energy.CoinValue {
		t.Fatalf("DelegatedFrozenBalance = %d, want %d", fromAcct.DelegatedFrozenBalance, 2*energy.CoinValue)
	}

	toAcct, err := storage.LoadAccountEnergy(p, to)
	if err != nil {
		t.Fatalf("LoadAccountEnergy(to): %v", err)
	}
	if toAcct.AcquiredDelegatedBalance != 2*energy.CoinValue {
		t.Fatalf("AcquiredDelegatedBalance = %d, want %d", toAcct.AcquiredDelegatedBalance, 2*energy.CoinValue)
	}

	undelegate := &Payload{
		Kind:             PayloadUndelegate,
		Sender:           from,
		To:               to,
		DelegationAmount: 2 * energy.CoinValue,
		FeeLimit:         1_000_000,
	}
	if _, err := runPipeline(t, vctx, actx, p, undelegate); err != nil {
		t.Fatalf("undelegate: %v", err)
	}

	fromAcct, err = storage.LoadAccountEnergy(p, from)
	if err != nil {
		t.Fatalf("LoadAccountEnergy(from) after undelegate: %v", err)
	}
	if fromAcct.DelegatedFrozenBalance != 0 {
		t.Fatalf("DelegatedFrozenBalance after undelegate = %d, want 0", fromAcct.DelegatedFrozenBalance)
	}
	if fromAcct.FrozenBalance != 5*energy.CoinValue {
		t.Fatalf("FrozenBalance after undelegate = %d, want %d", fromAcct.FrozenBalance, 5*energy.CoinValue)
	}
}

func TestPipeline_UnfreezeThenWithdrawReturnsCoins(t *testing.T) {
	vctx, actx, p := newApplyFixture(t)
	sender := testAddr(1)
	vctx.Ledger.SetBalance(sender, 1_000_000)
	actx.NowMs = 1_000

	freeze := &Payload{Kind: PayloadFreeze, Sender: sender, Amount: energy.CoinValue, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, freeze); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	unfreeze := &Payload{Kind: PayloadUnfreeze, Sender: sender, Amount: energy.CoinValue, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, unfreeze); err != nil {
		t.Fatalf("unfreeze: %v", err)
	}

	preWithdrawBalance := vctx.Ledger.Balance(sender)

	actx.NowMs = 1_000 + energy.UnfreezeDelayMs + 1
	vctx.NowMs = actx.NowMs
	withdraw := &Payload{Kind: PayloadWithdraw, Sender: sender, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, withdraw); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := vctx.Ledger.Balance(sender); got <= preWithdrawBalance {
		t.Fatalf("balance after withdraw = %d, want > %d", got, preWithdrawBalance)
	}
}

func TestPipeline_UnsupportedPayloadNeverReachesApply(t *testing.T) {
	vctx, actx, p := newApplyFixture(t)
	sender := testAddr(1)
	vctx.Ledger.SetBalance(sender, 1_000_000)

	payload := &Payload{Kind: PayloadMultiSigSetup, Sender: sender, FeeLimit: 1_000_000}
	if _, err := runPipeline(t, vctx, actx, p, payload); err != ErrUnsupportedPayload {
		t.Fatalf("pipeline error = %v, want %v", err, ErrUnsupportedPayload)
	}
}
