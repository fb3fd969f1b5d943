// Package schema writes RAML 1.0 library per record kind.
package schema

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"idoc2raml/config"
	"idoc2raml/idoc"
	"idoc2raml/output"
)

// Emitter writes schema files for typed record trees. By default kind
// referenced from several places is written once per reference, with
// EmitOnce set every distinct schema file is written only once for the
// lifetime of the Emitter.
type Emitter struct {
	sink       output.Sink
	names      output.NameFunc
	numberType string
	emitOnce   bool
	log        *zap.Logger
	emitted    *fileSet
}

// fileSet holds names of written schema files, it is shared by all emitters
// derived from the same New call.
type fileSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func New(sink output.Sink, cfg *config.SchemaConfig, names output.NameFunc, log *zap.Logger) *Emitter {
	if names == nil {
		names = output.KindName(cfg.Extension)
	}
	return &Emitter{
		sink:       sink,
		names:      names,
		numberType: cfg.NumberType,
		emitOnce:   cfg.EmitOnce,
		log:        log,
		emitted:    &fileSet{names: make(map[string]struct{})},
	}
}

// WithNames returns emitter writing to the same sink with different file
// naming. Files already written by e count as written for the new emitter.
func (e *Emitter) WithNames(names output.NameFunc) *Emitter {
	derived := *e
	if names != nil {
		derived.names = names
	}
	return &derived
}

// claim reports whether file name still has to be written. Files are
// tracked by name rather than by kind: naming may differ between derived
// emitters and every referenced file must exist.
func (e *Emitter) claim(name string) bool {
	if !e.emitOnce {
		return true
	}
	e.emitted.mu.Lock()
	defer e.emitted.mu.Unlock()

	if _, done := e.emitted.names[name]; done {
		return false
	}
	e.emitted.names[name] = struct{}{}
	return true
}

// Emit writes schema of def and, recursively, of all its nested kinds.
// Nested files are written before the file of def, so when a nested kind has
// the same name as one of its ancestors the outer definition is what stays.
// Returns number of files written.
func (e *Emitter) Emit(ctx context.Context, def *idoc.RecordDefinition) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	name, err := e.names(def.Name)
	if err != nil {
		return 0, fmt.Errorf("unable to name schema for %s: %w", def.Name, err)
	}
	if !e.claim(name) {
		e.log.Debug("Schema already written, skipping", zap.String("kind", def.Name), zap.String("file", name))
		return 0, nil
	}

	count := 0
	for _, nested := range def.Nested() {
		n, err := e.Emit(ctx, nested)
		if err != nil {
			return count, err
		}
		count += n
	}

	data, err := Render(def, e.numberType, e.names)
	if err != nil {
		return count, err
	}
	if err := e.sink.WriteFile(name, data); err != nil {
		return count, err
	}
	e.log.Debug("Schema written", zap.String("kind", def.Name), zap.String("file", name))
	return count + 1, nil
}

// EmitAll emits every top level definition, concurrently when parallel is
// requested. Returns total number of files written.
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
			n, err := e.Emit(gctx, def)
			counts[i] = n
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
