package environment

import "time"

// Runtime is the detected (or required) runtime environment of an
// entry point or an API.
type Runtime int

const (
	RuntimeUnknown Runtime = iota
	RuntimeNode
	RuntimeWorkers
	RuntimeUniversal
)

func (r Runtime) String() string {
	switch r {
	case RuntimeNode:
		return "node"
	case RuntimeWorkers:
		return "workers"
	case RuntimeUniversal:
		return "universal"
	default:
		return "unknown"
	}
}

// ApiUsage is one environment-specific API literal found in a
// reachable file.
type ApiUsage struct {
	API         string
	Description string
	File        string
	Line        int
	Environment Runtime
}

// Severity classifies how certain an environment mismatch is to fail
// at runtime.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Warning is one reported environment mismatch: an API whose required
// runtime conflicts with the entry point's detected runtime.
type Warning struct {
	Severity    Severity
	Message     string
	ImportChain []string
	API         string
	Suggestion  string
}

// Evidence is the full result of an environment safety analysis for
// one entry point, persisted to the registry for claim-gating (§4.H).
type Evidence struct {
	EntryPoint        string
	EntryEnvironment  Runtime
	ReachableModules  []string
	ApiUsages         []ApiUsage
	Warnings          []Warning
	IsSafe            bool
	ComputedAt        time.Time
}
