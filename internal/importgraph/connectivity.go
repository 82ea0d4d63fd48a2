package importgraph

// ConnectivityEvidence is the per-module Connectivity evidence variant
// of §3's data model: incoming/outgoing code edges, the paths on each
// side, and whether any architectural (deployment-topology) bindings
// attach to the module.
type ConnectivityEvidence struct {
	ModulePath    string
	Incoming      int
	Outgoing      int
	ImportedBy    []string
	Imports       []string
	Architectural int
}

// AnalyzeConnectivity summarizes path's connections within g.
func AnalyzeConnectivity(g *Graph, path string) ConnectivityEvidence {
	architectural, stored := g.ArchitecturalEdgeCounts[path]
	if !stored {
		if arch, ok := DetectArchitectural(path); ok {
			architectural = arch.TotalConnections()
		}
	}
	evidence := ConnectivityEvidence{
		ModulePath:    path,
		Architectural: architectural,
	}

	node, ok := g.GetNode(path)
	if !ok {
		return evidence
	}

	for _, e := range node.Incoming {
		evidence.Incoming++
		evidence.ImportedBy = append(evidence.ImportedBy, e.From)
	}
	for _, e := range node.Outgoing {
		if e.Kind == EdgeResolved {
			evidence.Outgoing++
			evidence.Imports = append(evidence.Imports, e.To)
		}
	}
	return evidence
}

// TotalConnections is the connectedness figure the Disconnection
// claim (§4.H) compares against its threshold: code edges plus
// architectural bindings.
func (e ConnectivityEvidence) TotalConnections() int {
	return e.Incoming + e.Outgoing + e.Architectural
}
