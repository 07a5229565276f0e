// Package contracts defines the shared value types exchanged between the
// verification components and across process boundaries (operator, verifier
// processes, consensus aggregation). Everything here is an immutable value
// record; the package is deliberately dependency-free so any component can
// import it without cycles.
package contracts

// Verdict is the outcome of a verification or consensus run.
//
// A Verdict is a value, never an error: FAIL means "verification ran and
// found a mismatch", which callers must keep distinct from "verification
// could not run" (a returned error).
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// Passed reports whether the verdict is PASS.
func (v Verdict) Passed() bool {
	return v == VerdictPass
}

// VerdictFor maps a boolean outcome to a Verdict.
func VerdictFor(ok bool) Verdict {
	if ok {
		return VerdictPass
	}
	return VerdictFail
}
