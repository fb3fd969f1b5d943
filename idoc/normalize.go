package idoc

import (
	"go.uber.org/zap"
)

// Normalize deduplicates attributes of every collected kind and returns raw
// records in first-seen kind order.
func Normalize(c *Collection, log *zap.Logger) []Record {
	records := make([]Record, 0, c.Len())
	for _, kind := range c.Kinds() {
		records = append(records, Record{
			Name:       kind,
			Attributes: NormalizeGroup(c.Attributes(kind), log.With(zap.String("kind", kind))),
		})
	}
	return records
}

// NormalizeGroup keeps the first occurrence of every attribute name and
// silently drops later ones, order is preserved. Fragments of the same kind
// are expected to be identical in structure, so nothing is merged: when
// duplicate differs in shape the first one still wins. Nested attribute lists
// are normalized the same way. Absent entries are passed through. Input is
// never modified.
func NormalizeGroup(attrs []Attribute, log *zap.Logger) []Attribute {
	seen := make(map[string]int, len(attrs))
	out := make([]Attribute, 0, len(attrs))

	for _, attr := range attrs {
		if attr.IsAbsent() {
			out = append(out, attr)
			continue
		}
		if idx, ok := seen[attr.Name]; ok {
			if out[idx].Nested != attr.Nested {
				log.Debug("Conflicting shapes for attribute, keeping first",
					zap.String("attribute", attr.Name), zap.Bool("first nested", out[idx].Nested))
			}
			continue
		}
		if attr.Nested {
			attr.Children = NormalizeGroup(attr.Children, log.With(zap.String("nested", attr.Name)))
		}
		seen[attr.Name] = len(out)
		out = append(out, attr)
	}
	return out
}
