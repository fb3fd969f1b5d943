package schema

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"idoc2raml/idoc"
	"idoc2raml/output"
)

// Header is the first line of every RAML 1.0 library.
const Header = "#%RAML 1.0 Library"

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

// aliasName maps kind to library alias made of letters, digits and
// underscores only.
func aliasName(kind string) string {
	alias := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, kind)
	if len(alias) == 0 || (alias[0] >= '0' && alias[0] <= '9') {
		alias = "_" + alias
	}
	return alias
}

// Render produces RAML library declaring single object type for def.
// Properties follow attribute order. Nested records are referenced through
// library imports of their own files named by names, one import per file.
// Nested record sharing file with def refers to the local type.
func Render(def *idoc.RecordDefinition, numberType string, names output.NameFunc) ([]byte, error) {
	self, err := names(def.Name)
	if err != nil {
		return nil, fmt.Errorf("unable to name schema for %s: %w", def.Name, err)
	}

	uses := mapping()
	props := mapping()
	aliases := make(map[string]string) // file name -> alias
	taken := make(map[string]struct{})

	for i := range def.Attributes {
		attr := &def.Attributes[i]

		var typ string
		switch attr.Type {
		case idoc.TypeFloat:
			typ = numberType
		case idoc.TypeString:
			typ = "string"
		case idoc.TypeObject:
			lib, err := names(attr.Record.Name)
			if err != nil {
				return nil, fmt.Errorf("unable to name schema for %s: %w", attr.Record.Name, err)
			}
			if lib == self {
				typ = attr.Record.Name
				break
			}
			alias, ok := aliases[lib]
			if !ok {
				base := aliasName(attr.Record.Name)
				alias = base
				for n := 2; ; n++ {
					if _, dup := taken[alias]; !dup {
						break
					}
					alias = base + "_" + strconv.Itoa(n)
				}
				taken[alias] = struct{}{}
				aliases[lib] = alias
				uses.Content = append(uses.Content, str(alias), str(lib))
			}
			typ = alias + "." + attr.Record.Name
		default:
			return nil, fmt.Errorf("attribute %s of %s has unexpected type %s", attr.Name, def.Name, attr.Type)
		}
		props.Content = append(props.Content, str(attr.Name), str(typ))
	}

	root := mapping()
	if len(uses.Content) > 0 {
		root.Content = append(root.Content, str("uses"), uses)
	}
	root.Content = append(root.Content,
		str("types"), mapping(
			str(def.Name), mapping(
				str("type"), str("object"),
				str("properties"), props,
			),
		),
	)

	buf := new(bytes.Buffer)
	buf.WriteString(Header + "\n\n")

	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("unable to encode schema for %s: %w", def.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("unable to encode schema for %s: %w", def.Name, err)
	}
	return buf.Bytes(), nil
}
