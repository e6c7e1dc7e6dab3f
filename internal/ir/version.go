package ir

// Version constants recorded with every run.
const (
	// EncodingVersion is the canonical encoding version.
	EncodingVersion = "1"

	// SolverVersion is the leg solver version. Bump it when solver numerics
	// change so old runs are not replayed against new behavior.
	SolverVersion = "0.1.0"
)
