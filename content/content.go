// Package content reads IDoc XML documents and splits them into segment
// fragments.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"idoc2raml/config"
	"idoc2raml/idoc"
)

// ErrNoContainer is returned when document has no container element.
var ErrNoContainer = errors.New("no container element found")

// Content is a parsed IDoc document together with its segment fragments.
type Content struct {
	SrcName    string
	Containers int
	Fragments  []idoc.Fragment
}

// Load reads XML document from r and extracts one fragment per direct child
// of every container element (cfg.ContainerTag) found anywhere in the
// document, in document order.
func Load(ctx context.Context, r io.Reader, srcName string, cfg *config.DocumentConfig, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read IDoc XML (%s): %w", srcName, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("unable to read IDoc XML (%s): document is empty", srcName)
	}

	containers := findContainers(doc, cfg.ContainerTag)
	if len(containers) == 0 {
		return nil, fmt.Errorf("%s: %w (%s)", srcName, ErrNoContainer, cfg.ContainerTag)
	}

	c := &Content{
		SrcName:    srcName,
		Containers: len(containers),
	}
	for _, container := range containers {
		for _, child := range container.ChildElements() {
			frag, err := serialize(child)
			if err != nil {
				return nil, fmt.Errorf("unable to extract segment %s (%s): %w", child.FullTag(), srcName, err)
			}
			c.Fragments = append(c.Fragments, frag)
		}
	}

	log.Debug("Document loaded",
		zap.String("source", srcName), zap.Int("containers", c.Containers), zap.Int("fragments", len(c.Fragments)))
	return c, nil
}

// charsetReader decodes legacy single and multi byte encodings. Declared
// UTF-16 and UTF-32 are ignored: the declaration could only be read if the
// stream had already been converted to UTF-8 by the caller.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch l := strings.ToLower(strings.TrimSpace(label)); {
	case strings.HasPrefix(l, "utf-16"), strings.HasPrefix(l, "utf-32"), l == "utf16", l == "utf32":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// findContainers returns container elements in document order. Containers
// nested inside other containers are not looked at separately, their content
// is part of the outer container segments.
func findContainers(doc *etree.Document, tag string) []*etree.Element {
	var found []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.FullTag() == tag || el.Tag == tag {
			found = append(found, el)
			return
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(doc.Root())
	return found
}

func serialize(el *etree.Element) (idoc.Fragment, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	return idoc.Fragment(data), nil
}
