package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statetrust/veristate/pkg/contracts"
	"github.com/statetrust/veristate/pkg/snapshot"
)

func snapshotsFixture() Snapshots {
	return Snapshots{
		Ledger: map[string]any{
			"version":   1,
			"accounts":  []any{map[string]any{"id": "cash"}},
			"entries":   []any{},
			"createdAt": "2026-03-01T00:00:00Z",
		},
		Registrum: map[string]any{"states": []any{"ACTIVE"}},
	}
}

func TestVerifyHash_Match(t *testing.T) {
	s := snapshotsFixture()
	state, err := snapshot.ComputeGlobalStateHash(s.Ledger, s.Registrum, s.ChainHashes)
	require.NoError(t, err)

	check, err := VerifyHash(s, state.Hash)
	require.NoError(t, err)

	assert.True(t, check.Match)
	assert.Equal(t, state.Hash, check.Computed)
	assert.Equal(t, state.Hash, check.Expected)
	assert.Equal(t, state.Subsystems, check.Subsystems)
}

func TestVerifyHash_Mismatch(t *testing.T) {
	check, err := VerifyHash(snapshotsFixture(), "0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err, "a mismatch is a result, not an error")

	assert.False(t, check.Match)
	assert.NotEqual(t, check.Expected, check.Computed)
}

func TestVerifyByReplay_NoExpectation(t *testing.T) {
	result, err := VerifyByReplay(Input{Snapshots: snapshotsFixture()})
	require.NoError(t, err)

	assert.Equal(t, contracts.VerdictPass, result.Verdict)
	assert.Empty(t, result.Discrepancies)
	assert.Len(t, result.StateHash.Hash, 64)
}

func TestVerifyByReplay_ExpectationMismatch(t *testing.T) {
	result, err := VerifyByReplay(Input{
		Snapshots:    snapshotsFixture(),
		ExpectedHash: "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	})
	require.NoError(t, err)

	assert.Equal(t, contracts.VerdictFail, result.Verdict)
	require.Len(t, result.Discrepancies, 1)
	assert.Contains(t, result.Discrepancies[0], "mismatch")
}

func TestVerifyByReplay_AgreesWithVerifyHash(t *testing.T) {
	s := snapshotsFixture()

	check, err := VerifyHash(s, "")
	require.NoError(t, err)

	result, err := VerifyByReplay(Input{Snapshots: s})
	require.NoError(t, err)

	assert.Equal(t, check.Computed, result.StateHash.Hash,
		"both entry points share one underlying computation")
}

func TestVerify_ErrorOnUnmarshalableSnapshot(t *testing.T) {
	bad := Snapshots{Ledger: map[string]any{"ch": make(chan int)}, Registrum: nil}

	_, err := VerifyHash(bad, "")
	assert.Error(t, err, "could-not-run is an error, not a FAIL verdict")

	_, err = VerifyByReplay(Input{Snapshots: bad})
	assert.Error(t, err)
}
