package energy

import (
	"reflect"
	"testing"
)

func TestAccountEnergyRoundTrip_Empty(t *testing.T) {
	a := &AccountEnergy{}
	buf, err := EncodeAccountEnergy(a)
	if err != nil {
		t.Fatalf("EncodeAccountEnergy(): %v", err)
	}
	if len(buf) != accountEnergyMinSize {
		t.Fatalf("encoded length = %d, want minimum %d", len(buf), accountEnergyMinSize)
	}
	got, err := DecodeAccountEnergy(buf)
	if err != nil {
		t.Fatalf("DecodeAccountEnergy(): %v", err)
	}
	a.UnfreezingList = []UnfreezeEntry{}
	if !reflect.DeepEqual(a, got) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, a)
	}
}

func TestAccountEnergyRoundTrip_FullQueue(t *testing.T) {
	a := &AccountEnergy{
		FrozenBalance:            1,
		DelegatedFrozenBalance:   2,
		AcquiredDelegatedBalance: 3,
		EnergyUsage:              4,
		LatestConsumeTime:        5,
		FreeEnergyUsage:          6,
		LatestFreeConsumeTime:    7,
	}
	for i := 0; i < MaxUnfreezingListSize; i++ {
		a.UnfreezingList = append(a.UnfreezingList, UnfreezeEntry{Amount: uint64(i), ExpireTime: uint64(i * 1000)})
	}

	buf, err := EncodeAccountEnergy(a)
	if err != nil {
		t.Fatalf("EncodeAccountEnergy(): %v", err)
	}
	if len(buf) != accountEnergyMaxSize {
		t.Fatalf("encoded length = %d, want max %d", len(buf), accountEnergyMaxSize)
	}

	got, err := DecodeAccountEnergy(buf)
	if err != nil {
		t.Fatalf("DecodeAccountEnergy(): %v", err)
	}
	if got.FrozenBalance != a.FrozenBalance || !reflect.DeepEqual(got.UnfreezingList, a.UnfreezingList) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, a)
	}
}

func TestDecodeAccountEnergy_TooShortRejected(t *testing.T) {
	if _, err := DecodeAccountEnergy(make([]byte, accountEnergyMinSize-1)); err == nil {
		t.Fatal("DecodeAccountEnergy() on truncated input: want error, got nil")
	}
}

func TestDecodeAccountEnergy_LengthMismatchRejected(t *testing.T) {
	buf := make([]byte, accountEnergyMinSize)
	buf[56] = 5 // claims 5 unfreeze entries but buffer has none
	if _, err := DecodeAccountEnergy(buf); err == nil {
		t.Fatal("DecodeAccountEnergy() on length/declared-count mismatch: want error, got nil")
	}
}

func TestGlobalEnergyStateRoundTrip(t *testing.T) {
	g := &GlobalEnergyState{TotalEnergyLimit: TotalEnergyLimit, TotalEnergyWeight: 42, LastUpdate: 99}
	buf := EncodeGlobalEnergyState(g)
	if len(buf) != globalEnergyStateSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), globalEnergyStateSize)
	}
	got, err := DecodeGlobalEnergyState(buf)
	if err != nil {
		t.Fatalf("DecodeGlobalEnergyState(): %v", err)
	}
	if *got != *g {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, g)
	}
}

func TestNewGlobalEnergyState_DefaultsLimitNotZero(t *testing.T) {
	g := NewGlobalEnergyState()
	if g.TotalEnergyLimit != TotalEnergyLimit {
		t.Fatalf("TotalEnergyLimit = %d, want %d", g.TotalEnergyLimit, TotalEnergyLimit)
	}
}
