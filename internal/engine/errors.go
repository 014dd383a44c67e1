package engine

import "errors"

// Errors produced by the engines. Check with errors.Is.
//
// None of these are retried anywhere: structural errors would fail the
// same way again without operator correction, and mutation errors leave
// the repository in a partially synchronized state that the operator must
// finish by hand.
var (
	// ErrUsage means required input was missing or malformed and the
	// tool could not safely default it. Nothing was touched.
	ErrUsage = errors.New("usage error")

	// ErrPrecondition means the repository was not in a state the export
	// can safely start from (dirty working tree). Nothing was touched.
	ErrPrecondition = errors.New("precondition failed")

	// ErrRangeTooLarge means the base..head range holds 100 or more
	// commits, which almost certainly means the wrong base or head was
	// selected.
	ErrRangeTooLarge = errors.New("commit range too large")

	// ErrApply means git am failed on a patch. The repository is left
	// as-is for manual conflict resolution; no rollback is attempted.
	ErrApply = errors.New("patch did not apply")

	// ErrMultiCommit means applying one patch produced more than one
	// commit, violating the one-patch-one-commit invariant. The
	// repository is left in its current state; finish manually.
	ErrMultiCommit = errors.New("multiple commits in one patch are not supported")

	// ErrAborted means the operator declined a confirmation.
	ErrAborted = errors.New("aborted by operator")
)
