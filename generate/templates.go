package generate

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"idoc2raml/config"
	"idoc2raml/output"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	Kind    string
	Source  string
	Ext     string
}

func parseTemplate(name, field string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	return tmpl, nil
}

func expandTemplate(tmpl *template.Template, values Values) (string, error) {
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// nameFunc returns output naming for one source document. Empty field means
// default naming: kind followed by extension. Expanded names are sanitized,
// an expansion which ends up empty is an error.
func nameFunc(usage, field, src, ext string) (output.NameFunc, error) {
	if len(strings.TrimSpace(field)) == 0 {
		return output.KindName(ext), nil
	}
	tmpl, err := parseTemplate(fmt.Sprintf("%s.%s", usage, config.FileNameTemplateFieldName), field)
	if err != nil {
		return nil, err
	}
	source := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	return func(kind string) (string, error) {
		name, err := expandTemplate(tmpl, Values{Context: usage, Kind: kind, Source: source, Ext: ext})
		if err != nil {
			return "", err
		}
		if name = strings.TrimSpace(name); len(name) == 0 {
			return "", errors.New("file name template expanded to empty string")
		}
		return config.CleanFileName(name), nil
	}, nil
}
