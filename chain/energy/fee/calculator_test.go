package fee

import "testing"

func TestCost_Transfer(t *testing.T) {
	c := NewEnergyFeeCalculator()
	got := c.Cost(KindTransfer, CostParams{TxSizeBytes: 150, Outputs: 2, NewAccounts: 1})
	want := uint64(150 + 2*100 + 1*25_000)
	if got != want {
		t.Fatalf("Cost(Transfer) = %d, want %d", got, want)
	}
}

func TestCost_PrivacyTransfer(t *testing.T) {
	c := NewEnergyFeeCalculator()
	got := c.Cost(KindPrivacyTransfer, CostParams{TxSizeBytes: 200, Outputs: 2})
	want := uint64(200 + 2*500)
	if got != want {
		t.Fatalf("Cost(PrivacyTransfer) = %d, want %d", got, want)
	}
}

func TestCost_Burn(t *testing.T) {
	c := NewEnergyFeeCalculator()
	if got := c.Cost(KindBurn, CostParams{}); got != 1_000 {
		t.Fatalf("Cost(Burn) = %d, want 1000", got)
	}
}

func TestCost_ContractDeploy(t *testing.T) {
	c := NewEnergyFeeCalculator()
	got := c.Cost(KindContractDeploy, CostParams{BytecodeBytes: 500})
	want := uint64(500*10 + 32_000)
	if got != want {
		t.Fatalf("Cost(ContractDeploy) = %d, want %d", got, want)
	}
}

func TestCost_ContractInvoke_ScalesWithMaxGas(t *testing.T) {
	c := NewEnergyFeeCalculator()

	low := c.Cost(KindContractInvoke, CostParams{TxSizeBytes: 200, MaxGas: 1_000})
	if low != 1_200 {
		t.Fatalf("Cost(Invoke, maxGas=1000) = %d, want 1200", low)
	}

	high := c.Cost(KindContractInvoke, CostParams{TxSizeBytes: 200, MaxGas: 1_000_000})
	if high != 1_000_200 {
		t.Fatalf("Cost(Invoke, maxGas=1000000) = %d, want 1000200", high)
	}

	if high-low != 999_000 {
		t.Fatalf("two otherwise-identical invocations must differ by delta max_gas: got delta %d", high-low)
	}
}

func TestCost_ZeroCostEnergyOperations(t *testing.T) {
	c := NewEnergyFeeCalculator()
	zeroCost := []TransactionKind{KindFreeze, KindUnfreeze, KindWithdraw, KindCancelUnfreeze, KindDelegate, KindUndelegate}
	for _, k := range zeroCost {
		if got := c.Cost(k, CostParams{TxSizeBytes: 9999, MaxGas: 9999}); got != 0 {
			t.Fatalf("Cost(kind=%d) = %d, want 0", k, got)
		}
	}
}

func TestRequiredBurnCoin(t *testing.T) {
	if got, want := RequiredBurnCoin(1_000), uint64(100_000); got != want {
		t.Fatalf("RequiredBurnCoin(1000) = %d, want %d", got, want)
	}
}
