package idoc

import (
	"strings"

	"idoc2raml/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns readable tree of the typed definition. It exists solely for
// inspection during debugging.
func (d *RecordDefinition) String() string {
	if d == nil {
		return "<nil RecordDefinition>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.record(0, d)
	return tw.String()
}

// Dump returns readable tree of all definitions.
func Dump(defs []*RecordDefinition) string {
	var b strings.Builder
	for _, d := range defs {
		b.WriteString(d.String())
	}
	return b.String()
}

func (tw treeWriter) record(depth int, d *RecordDefinition) {
	tw.Line(depth, "Record[%s] attributes=%d", d.Name, len(d.Attributes))
	for i := range d.Attributes {
		attr := &d.Attributes[i]
		if attr.Type == TypeObject {
			tw.record(depth+1, attr.Record)
			continue
		}
		tw.TextBlock(depth+1, attr.Name+" "+attr.Type.String(), attr.Value)
	}
}
