package idoc

import (
	"errors"
	"strings"

	"github.com/beevik/etree"

	"idoc2raml/config"
)

// nestedFunc decides whether segment child holds further records.
type nestedFunc func(el *etree.Element) bool

// hasChildElements looks at the parsed document model: element is a record
// container when it has element children.
func hasChildElements(el *etree.Element) bool {
	return len(el.ChildElements()) > 0
}

// startsWithNewline reproduces text based signal: element is a container
// when its content starts with line break. Scalar value which starts with
// line break is indistinguishable and ends up as a record.
func startsWithNewline(el *etree.Element) bool {
	switch t := el.Child[0].(type) {
	case *etree.CharData:
		return strings.HasPrefix(t.Data, "\n")
	case *etree.Element:
		return true
	default:
		return hasChildElements(el)
	}
}

func selectNestedFunc(detection config.NestedDetection) nestedFunc {
	if detection == config.NestedDetectionNewline {
		return startsWithNewline
	}
	return hasChildElements
}

// Decompose parses fragment and returns its record kind name and ordered raw
// attributes. Children without any content are skipped.
func Decompose(blob Fragment, detection config.NestedDetection) (string, []Attribute, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(blob); err != nil {
		return "", nil, &FragmentParseError{Index: -1, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return "", nil, &FragmentParseError{Index: -1, Err: errors.New("fragment has no root element")}
	}
	return root.FullTag(), decomposeChildren(root, selectNestedFunc(detection)), nil
}

func decomposeChildren(el *etree.Element, nested nestedFunc) []Attribute {
	var attrs []Attribute
	for _, child := range el.ChildElements() {
		if len(child.Child) == 0 {
			continue
		}
		attr := Attribute{Name: child.FullTag()}
		if nested(child) {
			attr.Nested = true
			attr.Children = decomposeChildren(child, nested)
		} else {
			attr.Value = child.Text()
		}
		attrs = append(attrs, attr)
	}
	return attrs
}
