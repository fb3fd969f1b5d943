// Package example writes sample JSON document per top level record kind.
package example

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"idoc2raml/config"
	"idoc2raml/idoc"
	"idoc2raml/output"
)

// Render produces document {"<kind>": {...}} with nested records inlined and
// every scalar value written as string. Keys follow attribute order.
func Render(def *idoc.RecordDefinition) ([]byte, error) {
	compact := new(bytes.Buffer)
	compact.WriteByte('{')
	if err := writeString(compact, def.Name); err != nil {
		return nil, err
	}
	compact.WriteByte(':')
	if err := writeRecord(compact, def); err != nil {
		return nil, err
	}
	compact.WriteByte('}')

	out := new(bytes.Buffer)
	if err := json.Indent(out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("unable to format example for %s: %w", def.Name, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, def *idoc.RecordDefinition) error {
	buf.WriteByte('{')
	for i := range def.Attributes {
		attr := &def.Attributes[i]
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, attr.Name); err != nil {
			return err
		}
		buf.WriteByte(':')

		var err error
		if attr.Type == idoc.TypeObject {
			err = writeRecord(buf, attr.Record)
		} else {
			err = writeString(buf, attr.Value)
		}
		if err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeString writes JSON string literal leaving HTML characters as is.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// drop newline Encode always adds
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Emitter writes example documents into a sub directory of the sink.
type Emitter struct {
	sink   output.Sink
	names  output.NameFunc
	subdir string
	log    *zap.Logger
}

func New(sink output.Sink, cfg *config.ExamplesConfig, names output.NameFunc, log *zap.Logger) *Emitter {
	if names == nil {
		names = output.KindName(".json")
	}
	return &Emitter{sink: sink, names: names, subdir: cfg.Subdir, log: log}
}

// WithNames returns emitter writing to the same sink with different file
// naming.
func (e *Emitter) WithNames(names output.NameFunc) *Emitter {
	derived := *e
	if names != nil {
		derived.names = names
	}
	return &derived
}

// Emit writes example for single top level definition.
func (e *Emitter) Emit(ctx context.Context, def *idoc.RecordDefinition) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := Render(def)
	if err != nil {
		return 0, err
	}
	name, err := e.names(def.Name)
	if err != nil {
		return 0, fmt.Errorf("unable to name example for %s: %w", def.Name, err)
	}
	name = path.Join(e.subdir, name)
	if err := e.sink.WriteFile(name, data); err != nil {
		return 0, err
	}
	e.log.Debug("Example written", zap.String("kind", def.Name), zap.String("file", name))
	return 1, nil
}

// EmitAll writes one example per top level definition, concurrently when
// parallel is requested. Returns number of files written.
func (e *Emitter) EmitAll(ctx context.Context, defs []*idoc.RecordDefinition, parallel bool) (int, error) {
	if !parallel {
		total := 0
		for _, def := range defs {
			n, err := e.Emit(ctx, def)
			total += n
			if err != nil {
				return total, err
			}
		}
		return total, nil
	}

	counts := make([]int, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		g.Go(func() error {
			var err error
			counts[i], err = e.Emit(gctx, def)
			return err
		})
	}
	err := g.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total, err
}
