package content

import (
	"idoc2raml/utils/debug"
)

// String returns readable summary of loaded document listing every fragment.
// It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Content[%s] containers=%d fragments=%d", c.SrcName, c.Containers, len(c.Fragments))
	for i, frag := range c.Fragments {
		tw.Line(1, "Fragment[%d] size=%d", i, len(frag))
		tw.TextBlock(2, "xml", string(frag))
	}
	return tw.String()
}
