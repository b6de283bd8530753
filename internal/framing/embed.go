package framing

import (
	"maps"
	"slices"

	"github.com/piprate/json-gold/ld"
)

// frameOnce follows the steps of JsonLdProcessor.Frame with opts.Embed set
// to @always, and collapses repeated embeds in the expanded framed output
// before it is compacted.
func (f *Framer) frameOnce(data, frame any, opts *ld.JsonLdOptions) (map[string]any, error) {
	frameMap, ok := frame.(map[string]any)
	if !ok {
		return nil, ld.NewJsonLdError(ld.InvalidFrame, "frame must be a JSON object")
	}
	frameMap = ld.CloneDocument(frameMap).(map[string]any)

	expandedInput, err := f.proc.Expand(data, opts)
	if err != nil {
		return nil, err
	}

	frameOpts := opts.Copy()
	frameOpts.ProcessingMode = ld.JsonLd_1_1_Frame
	frameOpts.ExpandContext = nil
	expandedFrame, err := f.proc.Expand(frameMap, frameOpts)
	if err != nil {
		return nil, err
	}

	api := ld.NewJsonLdApi()
	_, graphInFrame := frameMap["@graph"]
	framed, bnodesToClear, err := api.Frame(expandedInput, expandedFrame, opts, !graphInFrame)
	if err != nil {
		return nil, err
	}
	collapseEmbeds(framed)

	activeCtx, err := ld.NewContext(nil, opts).Parse(frameMap["@context"])
	if err != nil {
		return nil, err
	}
	compacted, err := api.Compact(activeCtx, "", framed, opts.CompactArrays)
	if err != nil {
		return nil, err
	}
	if opts.ProcessingMode == ld.JsonLd_1_0 {
		bnodesToClear = nil
	}

	result, err := activeCtx.Serialize()
	if err != nil {
		return nil, err
	}
	graphAlias, err := activeCtx.CompactIri("@graph", nil, false, false)
	if err != nil {
		return nil, err
	}

	switch c := compacted.(type) {
	case []any:
		result[graphAlias] = c
	case map[string]any:
		if opts.OmitGraph {
			ctx := result["@context"]
			result = c
			result["@context"] = ctx
		} else {
			result[graphAlias] = []any{c}
		}
	default:
		result[graphAlias] = []any{c}
	}

	if _, err := ld.RemovePreserve(activeCtx, result, bnodesToClear, opts.CompactArrays); err != nil {
		return nil, err
	}
	return result, nil
}

// collapseEmbeds rewrites expanded @always output to @once. Each top-level
// node starts a fresh record of embedded nodes. Nodes are visited in framing
// order: nested @graph first, then properties sorted by IRI, then @reverse.
// The first visit of an @id keeps its embed; later ones become references.
func collapseEmbeds(framed []any) {
	for _, item := range framed {
		if node, ok := item.(map[string]any); ok {
			collapseNode(node, "", make(map[string]map[string]bool))
		}
	}
}

func collapseNode(node map[string]any, graph string, seen map[string]map[string]bool) {
	id, hasID := node["@id"].(string)
	if hasID {
		if seen[graph] == nil {
			seen[graph] = make(map[string]bool)
		}
		seen[graph][id] = true
	}

	if members, ok := node["@graph"].([]any); ok && hasID {
		for _, m := range members {
			if child, ok := m.(map[string]any); ok {
				collapseNode(child, id, seen)
			}
		}
	}

	for _, prop := range slices.Sorted(maps.Keys(node)) {
		if ld.IsKeyword(prop) {
			continue
		}
		collapseValues(node[prop], graph, seen)
	}

	if reverse, ok := node["@reverse"].(map[string]any); ok {
		for _, prop := range slices.Sorted(maps.Keys(reverse)) {
			collapseValues(reverse[prop], graph, seen)
		}
	}
}

func collapseValues(v any, graph string, seen map[string]map[string]bool) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if list, ok := m["@list"]; ok {
			collapseValues(list, graph, seen)
			continue
		}
		id, ok := m["@id"].(string)
		if !ok {
			continue
		}
		if seen[graph][id] {
			items[i] = map[string]any{"@id": id}
			continue
		}
		collapseNode(m, graph, seen)
	}
}

// hasEmbedFlag reports whether an "@embed" key appears anywhere in frame.
func hasEmbedFlag(frame any) bool {
	switch v := frame.(type) {
	case map[string]any:
		for k, child := range v {
			if k == "@embed" || hasEmbedFlag(child) {
				return true
			}
		}
	case []any:
		for _, child := range v {
			if hasEmbedFlag(child) {
				return true
			}
		}
	}
	return false
}
