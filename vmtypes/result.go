package vmtypes

// Result is the outcome of one call or create invocation. Exactly one
// side owns a Result at a time; ownership of Output transfers with it.
type Result struct {
	Status StatusCode

	// GasLeft is 0 unless Status is Success or Revert.
	GasLeft int64

	// Output is the RETURN or REVERT payload. Nil iff empty. Owned by
	// the producer until the Result is handed over.
	Output []byte

	// Release frees resources backing Output. Optional; when set, the
	// consumer must invoke it exactly once before discarding the Result.
	// Prefer Free, which is nil-safe and idempotent.
	Release func()

	// CreatedAddress is the account created by a successful Create.
	// Nil for every other kind of result. This is the in-process form
	// of the ABI's 24-byte reserved region.
	CreatedAddress *Address
}

// Free invokes the release capability if present, at most once, and
// drops the output reference.
func (r *Result) Free() {
	if r.Release != nil {
		r.Release()
		r.Release = nil
	}
	r.Output = nil
}

// ErrorResult builds a well-formed failure result for the given status.
// Error statuses never carry gas or output.
func ErrorResult(status StatusCode) Result {
	if status.KeepsGas() {
		// Success/Revert need explicit gas accounting; treat this as a
		// caller bug and degrade to a plain failure.
		status = Failure
	}
	return Result{Status: status}
}
