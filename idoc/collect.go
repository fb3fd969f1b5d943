package idoc

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v3"
	"go.uber.org/zap"

	"idoc2raml/config"
)

// Collection groups raw attributes of all fragments by record kind, kinds are
// kept in the order they were first seen.
type Collection struct {
	kinds *orderedmap.OrderedMap[string, []Attribute]
}

// Collect decomposes fragments in order and concatenates attribute lists of
// fragments sharing record kind. Any fragment failing to decompose aborts
// collection.
func Collect(fragments []Fragment, detection config.NestedDetection, log *zap.Logger) (*Collection, error) {
	c := &Collection{kinds: orderedmap.NewOrderedMap[string, []Attribute]()}

	for i, blob := range fragments {
		name, attrs, err := Decompose(blob, detection)
		if err != nil {
			var pe *FragmentParseError
			if errors.As(err, &pe) {
				pe.Index = i
				return nil, pe
			}
			return nil, fmt.Errorf("fragment %d: %w", i, err)
		}
		existing, seen := c.kinds.Get(name)
		if !seen {
			log.Debug("New record kind", zap.String("kind", name), zap.Int("fragment", i))
		}
		c.kinds.Set(name, append(existing, attrs...))
	}
	return c, nil
}

// Len returns number of distinct record kinds.
func (c *Collection) Len() int {
	return c.kinds.Len()
}

// Kinds returns record kind names in first-seen order.
func (c *Collection) Kinds() []string {
	names := make([]string, 0, c.kinds.Len())
	for el := c.kinds.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Attributes returns raw attributes collected for kind.
func (c *Collection) Attributes(kind string) []Attribute {
	attrs, _ := c.kinds.Get(kind)
	return attrs
}
