package catalog

import (
	"encoding/json"
	"strings"
)

// Tag prefixes surfaced by the derived views. Tags with any other prefix
// are stored as-is but not surfaced.
const (
	actorPrefix  = "actor:"
	actionPrefix = "tag:"
)

// encodeTags serializes a tag list into the stored JSON array form.
// A nil slice encodes as an empty array, never as JSON null.
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		// Marshalling []string cannot fail; keep the stored default anyway.
		return "[]"
	}
	return string(data)
}

// decodeTags decodes the tags column defensively. Three shapes occur in
// the wild, tried in order:
//
//  1. a proper JSON array of strings,
//  2. a JSON string whose contents are themselves a JSON array (written
//     by an early release that double-encoded),
//  3. anything else, which decodes to an empty list.
//
// Malformed input never raises; the fallback is always the empty list.
func decodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		if tags == nil {
			return []string{}
		}
		return tags
	}

	var nested string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &tags); err == nil && tags != nil {
			return tags
		}
	}

	return []string{}
}

// Actors returns the names carried by "actor:" tags, in tag order.
func Actors(tags []string) []string {
	return withPrefix(tags, actorPrefix)
}

// Actions returns the names carried by "tag:" tags, in tag order.
func Actions(tags []string) []string {
	return withPrefix(tags, actionPrefix)
}

func withPrefix(tags []string, prefix string) []string {
	var names []string
	for _, t := range tags {
		if rest, ok := strings.CutPrefix(t, prefix); ok && rest != "" {
			names = append(names, rest)
		}
	}
	return names
}
