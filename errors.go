package ragline

import "errors"

// Error kinds surfaced by the pipeline. Lower layers wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with errors.Is
// without depending on concrete backends.
var (
	// ErrInput marks malformed or missing source metadata. Fatal: there is
	// no silent default for a fragment that cannot be attributed.
	ErrInput = errors.New("invalid input")

	// ErrProvider marks a failed embedding or language-model call. The
	// pipeline performs no internal retries; retry policy belongs to the
	// caller.
	ErrProvider = errors.New("provider call failed")

	// ErrStore marks an index, write or query failure in a vector store.
	ErrStore = errors.New("vector store failure")

	// ErrDimensionMismatch marks an embedding whose length disagrees with
	// the store's configured dimensionality. Raised at write time, before
	// anything is persisted for the offending batch.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
