package importgraph

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// maxAncestorLevels bounds how far up the directory tree Ground looks
// for a deployment-topology descriptor, per §4.D.
const maxAncestorLevels = 5

// descriptorFilenames are the deployment-topology descriptor names
// recognized in a module's directory or ancestors.
var descriptorFilenames = []string{"wrangler.toml"}

// Binding is a single named resource binding declared in a deployment
// descriptor (KV namespace, D1 database, queue, durable object, ...).
type Binding struct {
	Type       string
	Name       string
	ResourceID string
}

// Architectural is the set of deployment-topology connections
// discovered for a module, per §4.D's architectural detection.
type Architectural struct {
	Routes          []string
	Crons           []string
	Bindings        []Binding
	ServiceBindings []string
	CustomDomains   []string
}

// TotalConnections sums routes + crons + bindings + custom domains,
// the count added to the code-edge total when judging connectedness.
func (a Architectural) TotalConnections() int {
	return len(a.Routes) + len(a.Crons) + len(a.Bindings) + len(a.CustomDomains)
}

// FindDescriptor searches modulePath's directory and up to
// maxAncestorLevels ancestors for a deployment-topology descriptor,
// returning its path if found.
func FindDescriptor(modulePath string) (string, bool) {
	dir := modulePath
	if info, err := os.Stat(modulePath); err == nil && !info.IsDir() {
		dir = filepath.Dir(modulePath)
	}
	for i := 0; i <= maxAncestorLevels; i++ {
		for _, name := range descriptorFilenames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// DetectArchitectural loads and parses the descriptor discovered for
// modulePath, if any, per §4.D's binding-category list.
func DetectArchitectural(modulePath string) (Architectural, bool) {
	path, ok := FindDescriptor(modulePath)
	if !ok {
		return Architectural{}, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Architectural{}, false
	}
	return ParseWranglerToml(content)
}

// ParseWranglerToml extracts architectural connections from a
// wrangler.toml document's key-value structure.
func ParseWranglerToml(content []byte) (Architectural, bool) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		return Architectural{}, false
	}

	var arch Architectural

	if route, ok := doc["route"].(string); ok {
		arch.Routes = append(arch.Routes, route)
	}
	if routes, ok := doc["routes"].([]any); ok {
		for _, r := range routes {
			switch v := r.(type) {
			case string:
				arch.Routes = append(arch.Routes, v)
			case map[string]any:
				if pattern, ok := v["pattern"].(string); ok {
					arch.Routes = append(arch.Routes, pattern)
				}
			}
		}
	}

	if domains, ok := doc["custom_domains"].([]any); ok {
		for _, d := range domains {
			if s, ok := d.(string); ok {
				arch.CustomDomains = append(arch.CustomDomains, s)
			}
		}
	}

	if triggers, ok := doc["triggers"].(map[string]any); ok {
		if crons, ok := triggers["crons"].([]any); ok {
			for _, c := range crons {
				if s, ok := c.(string); ok {
					arch.Crons = append(arch.Crons, s)
				}
			}
		}
	}

	arch.Bindings = append(arch.Bindings, bindingsFromArray(doc, "kv_namespaces", "kv", "binding", "id")...)
	arch.Bindings = append(arch.Bindings, bindingsFromArray(doc, "d1_databases", "d1", "binding", "database_id")...)
	arch.Bindings = append(arch.Bindings, bindingsFromArray(doc, "r2_buckets", "r2", "binding", "bucket_name")...)

	if services, ok := doc["services"].([]any); ok {
		for _, s := range services {
			obj, ok := s.(map[string]any)
			if !ok {
				continue
			}
			name, _ := obj["binding"].(string)
			if name == "" {
				name = "unknown"
			}
			service, _ := obj["service"].(string)
			if service == "" {
				service = name
			}
			arch.ServiceBindings = append(arch.ServiceBindings, service)
			arch.Bindings = append(arch.Bindings, Binding{Type: "service", Name: name, ResourceID: service})
		}
	}

	if durable, ok := doc["durable_objects"].(map[string]any); ok {
		if bindings, ok := durable["bindings"].([]any); ok {
			for _, b := range bindings {
				obj, ok := b.(map[string]any)
				if !ok {
					continue
				}
				name, _ := obj["name"].(string)
				if name == "" {
					name = "unknown"
				}
				class, _ := obj["class_name"].(string)
				arch.Bindings = append(arch.Bindings, Binding{Type: "durable_object", Name: name, ResourceID: class})
			}
		}
	}

	if queues, ok := doc["queues"].(map[string]any); ok {
		if producers, ok := queues["producers"].([]any); ok {
			for _, p := range producers {
				obj, ok := p.(map[string]any)
				if !ok {
					continue
				}
				name, _ := obj["binding"].(string)
				if name == "" {
					name = "unknown"
				}
				queue, _ := obj["queue"].(string)
				arch.Bindings = append(arch.Bindings, Binding{Type: "queue_producer", Name: name, ResourceID: queue})
			}
		}
		if consumers, ok := queues["consumers"].([]any); ok {
			for _, c := range consumers {
				obj, ok := c.(map[string]any)
				if !ok {
					continue
				}
				queue, _ := obj["queue"].(string)
				if queue == "" {
					queue = "unknown"
				}
				arch.Bindings = append(arch.Bindings, Binding{Type: "queue_consumer", Name: queue, ResourceID: queue})
			}
		}
	}

	if tails, ok := doc["tail_consumers"].([]any); ok {
		for _, t := range tails {
			obj, ok := t.(map[string]any)
			if !ok {
				continue
			}
			service, _ := obj["service"].(string)
			if service == "" {
				service = "unknown"
			}
			arch.Bindings = append(arch.Bindings, Binding{Type: "tail", Name: "tail", ResourceID: service})
		}
	}

	if arch.TotalConnections() == 0 {
		return Architectural{}, false
	}
	return arch, true
}

func bindingsFromArray(doc map[string]any, key, bindingType, nameField, idField string) []Binding {
	arr, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	var out []Binding
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj[nameField].(string)
		if name == "" {
			name = "unknown"
		}
		id, _ := obj[idField].(string)
		out = append(out, Binding{Type: bindingType, Name: name, ResourceID: id})
	}
	return out
}
