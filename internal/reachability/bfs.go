package reachability

import (
	"github.com/groundlang/ground/internal/importgraph"
)

// Status classifies a node's relationship to the entry-point set, per
// §4.E.
type Status int

const (
	StatusUnreachable Status = iota
	StatusReachable
	StatusEntry
	StatusDynamic
)

// Result holds the reachability classification for every node the BFS
// visited or recorded as unreachable.
type Result struct {
	Status map[string]Status
}

// IsReachable reports whether path was marked entry or reachable.
func (r Result) IsReachable(path string) bool {
	switch r.Status[path] {
	case StatusEntry, StatusReachable:
		return true
	default:
		return false
	}
}

// Analyze runs BFS from entryPoints over g, marking every node entry,
// reachable, or left unvisited (unreachable). Unresolved edges stay
// recorded on the graph and do not extend reachability. Every node the
// walk visits is already entry or reachable and keeps that status, so
// Analyze never assigns StatusDynamic.
func Analyze(g *importgraph.Graph, entryPoints []string) Result {
	status := make(map[string]Status, g.NodeCount())
	for path := range g.Nodes() {
		status[path] = StatusUnreachable
	}

	queue := make([]string, 0, len(entryPoints))
	for _, entry := range entryPoints {
		if _, ok := g.GetNode(entry); !ok {
			g.EnsureNode(entry)
		}
		status[entry] = StatusEntry
		queue = append(queue, entry)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := g.GetNode(current)
		if !ok {
			continue
		}
		for _, edge := range node.Outgoing {
			if edge.Kind != importgraph.EdgeResolved {
				if status[current] != StatusEntry && status[current] != StatusReachable {
					status[current] = StatusDynamic
				}
				continue
			}
			if status[edge.To] == StatusUnreachable {
				status[edge.To] = StatusReachable
				queue = append(queue, edge.To)
			}
		}
	}

	return Result{Status: status}
}

// ShortestPath returns the shortest sequence of file paths connecting
// from to to over g's resolved edges, via BFS, or nil if no path
// exists. Used by §4.F to reconstruct the import chain from an entry
// point to an offending file.
func ShortestPath(g *importgraph.Graph, from, to string) []string {
	if from == to {
		return []string{from}
	}
	visited := map[string]bool{from: true}
	parent := map[string]string{}
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := g.GetNode(current)
		if !ok {
			continue
		}
		for _, edge := range node.Outgoing {
			if edge.Kind != importgraph.EdgeResolved || visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			parent[edge.To] = current
			if edge.To == to {
				return reconstructPath(parent, from, to)
			}
			queue = append(queue, edge.To)
		}
	}
	return nil
}

func reconstructPath(parent map[string]string, from, to string) []string {
	path := []string{to}
	node := to
	for node != from {
		p, ok := parent[node]
		if !ok {
			return []string{from, to}
		}
		path = append(path, p)
		node = p
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
