package framing

import "sort"

// TopLevelNodes returns the node objects at the top of a framed result:
// the members of "@graph" when present, otherwise the result itself minus
// its "@context" (or nothing when only the context remains).
func TopLevelNodes(result map[string]any) []map[string]any {
	if graph, ok := result["@graph"]; ok {
		var nodes []map[string]any
		switch g := graph.(type) {
		case []any:
			for _, item := range g {
				if m, ok := item.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
		case map[string]any:
			nodes = append(nodes, g)
		}
		return nodes
	}

	node := make(map[string]any, len(result))
	for k, v := range result {
		if k == "@context" {
			continue
		}
		node[k] = v
	}
	if len(node) == 0 {
		return nil
	}
	return []map[string]any{node}
}

// Types returns the sorted, de-duplicated "@type" values found anywhere in v.
func Types(v any) []string {
	seen := make(map[string]struct{})
	collectTypes(v, seen)

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func collectTypes(v any, seen map[string]struct{}) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if k == "@context" {
				continue
			}
			if k == "@type" {
				switch t := child.(type) {
				case string:
					seen[t] = struct{}{}
				case []any:
					for _, item := range t {
						if s, ok := item.(string); ok {
							seen[s] = struct{}{}
						}
					}
				}
				continue
			}
			collectTypes(child, seen)
		}
	case []any:
		for _, item := range val {
			collectTypes(item, seen)
		}
	}
}
