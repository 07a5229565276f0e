package verifier

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statetrust/veristate/pkg/bundle"
	"github.com/statetrust/veristate/pkg/canonicalize"
	"github.com/statetrust/veristate/pkg/contracts"
)

func bundleFixture(t *testing.T) bundle.ExportableStateBundle {
	t.Helper()
	b, err := bundle.CreateStateBundle(
		map[string]any{"version": 1, "accounts": []any{}, "entries": []any{}, "createdAt": "2026-03-01T00:00:00Z"},
		map[string]any{"states": []any{}},
		[]string{canonicalize.HashString("event-1")},
		nil,
	)
	require.NoError(t, err)
	return b
}

func TestReportFromBundle_Pass(t *testing.T) {
	report, err := ReportFromBundle(bundleFixture(t), "verifier-a")
	require.NoError(t, err)

	assert.Equal(t, contracts.VerdictPass, report.Verdict)
	assert.Equal(t, "verifier-a", report.VerifierID)
	assert.NotEmpty(t, report.ReportID)
	assert.Empty(t, report.Discrepancies)
	assert.True(t, report.SubsystemChecks["bundleHash"])
	assert.True(t, report.SubsystemChecks["globalHash"])
	assert.True(t, report.SubsystemChecks["ledger"])
	assert.True(t, report.SubsystemChecks["registrum"])
}

func TestReportFromBundle_TamperedLedger(t *testing.T) {
	b := bundleFixture(t)
	b.LedgerSnapshot = map[string]any{"version": 99}

	report, err := ReportFromBundle(b, "verifier-a")
	require.NoError(t, err)

	assert.Equal(t, contracts.VerdictFail, report.Verdict)
	assert.False(t, report.SubsystemChecks["ledger"])
	assert.True(t, report.SubsystemChecks["registrum"], "registrum untouched")
	assert.NotEmpty(t, report.Discrepancies)
}

func TestReportFromBundle_UniqueReportIDs(t *testing.T) {
	b := bundleFixture(t)

	r1, err := ReportFromBundle(b, "verifier-a")
	require.NoError(t, err)
	r2, err := ReportFromBundle(b, "verifier-a")
	require.NoError(t, err)

	assert.NotEqual(t, r1.ReportID, r2.ReportID)
	assert.Equal(t, r1.Verdict, r2.Verdict)
}

func TestVerifyBundleFile(t *testing.T) {
	b := bundleFixture(t)
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, raw, 0600))

	report, err := VerifyBundleFile(path, "verifier-b")
	require.NoError(t, err)
	assert.Equal(t, contracts.VerdictPass, report.Verdict)
	assert.Equal(t, b.BundleHash, report.BundleHash)
}

func TestVerifyBundleBytes_MalformedIsError(t *testing.T) {
	_, err := VerifyBundleBytes([]byte(`{"version":"not-an-int"}`), "verifier-a")
	assert.Error(t, err, "malformed bundle means verification could not run")
}

func TestVerifyBundleFile_Missing(t *testing.T) {
	_, err := VerifyBundleFile(filepath.Join(t.TempDir(), "nope.json"), "verifier-a")
	assert.Error(t, err)
}
