package claimgate

// Thresholds configures the minimum evidence strength each claim kind
// requires, matching the defaults of
// original_source/packages/ground/src/lib.rs's TriadThresholds.
type Thresholds struct {
	// DrySimilarity is the minimum composite similarity score (§4.C)
	// a DryViolation claim requires.
	DrySimilarity float64

	// RamsMinUsage is the usage count at or above which a symbol has
	// "earned existence" — a NoExistence claim requires a usage count
	// strictly below this.
	RamsMinUsage int

	// HeideggerMinConnections is the connection count at or above
	// which a module "serves the whole" — a Disconnection claim
	// requires a connection count strictly below this.
	HeideggerMinConnections int
}

// DefaultThresholds matches the Rust original's Default impl exactly.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DrySimilarity:           0.80,
		RamsMinUsage:            1,
		HeideggerMinConnections: 1,
	}
}
