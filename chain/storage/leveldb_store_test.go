package storage

import (
	"path/filepath"
	"testing"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/types"

	"github.com/syndtr/goleveldb/leveldb"
)

func openTestDB(t *testing.T) *leveldb.DB {
	t.Helper()
	db, err := leveldb.OpenFile(filepath.Join(t.TempDir(), "energy-store"), nil)
	if err != nil {
		t.Fatalf("leveldb.OpenFile(): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAccountEnergy_LoadDefaultsWhenAbsent(t *testing.T) {
	p := NewLevelDBProvider(openTestDB(t))
	addr := types.BytesToAddress([]byte{1})

	acct, err := LoadAccountEnergy(p, addr)
	if err != nil {
		t.Fatalf("LoadAccountEnergy(): %v", err)
	}
	if acct.FrozenBalance != 0 {
		t.Fatalf("FrozenBalance = %d, want 0 for absent account", acct.FrozenBalance)
	}
}

func TestAccountEnergy_PutThenLoadRoundTrips(t *testing.T) {
	p := NewLevelDBProvider(openTestDB(t))
	addr := types.BytesToAddress([]byte{2})

	acct := &energy.AccountEnergy{FrozenBalance: 12345, EnergyUsage: 10}
	batch := p.NewBatch()
	if err := PutAccountEnergy(batch, addr, acct); err != nil {
		t.Fatalf("PutAccountEnergy(): %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit(): %v", err)
	}

	got, err := LoadAccountEnergy(p, addr)
	if err != nil {
		t.Fatalf("LoadAccountEnergy(): %v", err)
	}
	if got.FrozenBalance != acct.FrozenBalance || got.EnergyUsage != acct.EnergyUsage {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, acct)
	}
}

func TestGlobalEnergyState_DefaultsLimitWhenAbsent(t *testing.T) {
	p := NewLevelDBProvider(openTestDB(t))

	g, err := LoadGlobalEnergyState(p)
	if err != nil {
		t.Fatalf("LoadGlobalEnergyState(): %v", err)
	}
	if g.TotalEnergyLimit != energy.TotalEnergyLimit {
		t.Fatalf("TotalEnergyLimit = %d, want %d", g.TotalEnergyLimit, energy.TotalEnergyLimit)
	}
}

func TestBatch_AllOrNothing(t *testing.T) {
	p := NewLevelDBProvider(openTestDB(t))
	addrA := types.BytesToAddress([]byte{3})
	addrB := types.BytesToAddress([]byte{4})

	batch := p.NewBatch()
	batch.Put(AccountEnergyKey(addrA), mustEncode(t, &energy.AccountEnergy{FrozenBalance: 1}))
	batch.Put(AccountEnergyKey(addrB), mustEncode(t, &energy.AccountEnergy{FrozenBalance: 2}))
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit(): %v", err)
	}

	hasA, _ := p.Has(AccountEnergyKey(addrA))
	hasB, _ := p.Has(AccountEnergyKey(addrB))
	if !hasA || !hasB {
		t.Fatal("committed batch did not make both writes visible")
	}
}

func mustEncode(t *testing.T, a *energy.AccountEnergy) []byte {
	t.Helper()
	buf, err := energy.EncodeAccountEnergy(a)
	if err != nil {
		t.Fatalf("EncodeAccountEnergy(): %v", err)
	}
	return buf
}

func TestIterate_DelegatorIndexPrefix(t *testing.T) {
	p := NewLevelDBProvider(openTestDB(t))
	delegatee := types.BytesToAddress([]byte{9})
	d1 := types.BytesToAddress([]byte{1})
	d2 := types.BytesToAddress([]byte{2})

	batch := p.NewBatch()
	batch.Put(DelegatorIndexKey(delegatee, d1), []byte{1})
	batch.Put(DelegatorIndexKey(delegatee, d2), []byte{1})
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit(): %v", err)
	}

	count := 0
	err := p.Iterate(DelegatorIndexPrefix(delegatee), func(key, value []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate(): %v", err)
	}
	if count != 2 {
		t.Fatalf("Iterate() visited %d entries, want 2", count)
	}
}
