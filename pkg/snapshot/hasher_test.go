package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerFixture() map[string]any {
	return map[string]any{
		"version": 3,
		"accounts": []any{
			map[string]any{"id": "cash", "type": "ASSET"},
			map[string]any{"id": "revenue", "type": "INCOME"},
		},
		"entries":   []any{},
		"createdAt": "2026-03-01T00:00:00Z",
	}
}

func registrumFixture() map[string]any {
	return map[string]any{
		"states": map[string]any{"org-1": "ACTIVE"},
	}
}

func TestComputeGlobalStateHash_Deterministic(t *testing.T) {
	g1, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)
	g2, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)

	assert.Equal(t, g1.Hash, g2.Hash)
	assert.Equal(t, g1.Subsystems, g2.Subsystems)
	assert.Len(t, g1.Hash, 64)
}

func TestGlobalHash_IsHashOfHashes(t *testing.T) {
	g, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, g.Hash, g.Subsystems.Ledger)
	assert.NotEqual(t, g.Hash, g.Subsystems.Registrum)
	assert.NotEqual(t, g.Hash, g.Subsystems.Ledger+g.Subsystems.Registrum)
}

func TestGlobalHash_SubsystemIsolation(t *testing.T) {
	base, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)

	// Mutate only the ledger snapshot
	ledger := ledgerFixture()
	ledger["version"] = 4
	changed, err := ComputeGlobalStateHash(ledger, registrumFixture(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, base.Hash, changed.Hash)
	assert.NotEqual(t, base.Subsystems.Ledger, changed.Subsystems.Ledger)
	assert.Equal(t, base.Subsystems.Registrum, changed.Subsystems.Registrum)

	// And the other way around
	registrum := registrumFixture()
	registrum["states"] = map[string]any{"org-1": "SUSPENDED"}
	changed2, err := ComputeGlobalStateHash(ledgerFixture(), registrum, nil)
	require.NoError(t, err)

	assert.NotEqual(t, base.Hash, changed2.Hash)
	assert.Equal(t, base.Subsystems.Ledger, changed2.Subsystems.Ledger)
	assert.NotEqual(t, base.Subsystems.Registrum, changed2.Subsystems.Registrum)
}

func TestGlobalHash_ChainHashesParticipate(t *testing.T) {
	without, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)

	with, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(),
		map[string]string{"ethereum": "aa11"})
	require.NoError(t, err)

	assert.NotEqual(t, without.Hash, with.Hash)
	// Subsystem hashes are unaffected by chain hashes
	assert.Equal(t, without.Subsystems, with.Subsystems)

	// Empty map is the same as absent
	empty, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(),
		map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, without.Hash, empty.Hash)
}

func TestGlobalHash_ComputedAtExcluded(t *testing.T) {
	g1, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)
	g2, err := ComputeGlobalStateHash(ledgerFixture(), registrumFixture(), nil)
	require.NoError(t, err)

	// Even if the wall clock moved between calls, the hashes are identical.
	assert.Equal(t, g1.Hash, g2.Hash)
}

func TestHashSnapshot_KeyOrderInvariant(t *testing.T) {
	a := map[string]any{"version": 1, "accounts": []any{}}
	b := map[string]any{"accounts": []any{}, "version": 1}

	ha, err := HashLedgerSnapshot(a)
	require.NoError(t, err)
	hb, err := HashLedgerSnapshot(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
