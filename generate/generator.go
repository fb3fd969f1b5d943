package generate

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"idoc2raml/config"
	"idoc2raml/content"
	"idoc2raml/example"
	"idoc2raml/idoc"
	"idoc2raml/output"
	"idoc2raml/schema"
)

// generator keeps state of a single generate run: emitters share sink and,
// in emit once mode, the set of already written schema files across all documents.
type generator struct {
	cfg      *config.DocumentConfig
	rpt      *config.Report
	log      *zap.Logger
	schemas  *schema.Emitter
	examples *example.Emitter

	documents    int
	schemaFiles  int
	exampleFiles int
}

func newGenerator(cfg *config.DocumentConfig, rpt *config.Report, sink output.Sink, log *zap.Logger) *generator {
	g := &generator{
		cfg:     cfg,
		rpt:     rpt,
		log:     log,
		schemas: schema.New(sink, &cfg.Schema, nil, log.Named("schema")),
	}
	if cfg.Examples.Generate {
		g.examples = example.New(sink, &cfg.Examples, nil, log.Named("example"))
	}
	return g
}

// processDocument runs complete pipeline for single IDoc document. "src" is
// the source path relative to what was requested on the command line, it is
// used for logging, debug report and file name templates.
func (g *generator) processDocument(ctx context.Context, r io.Reader, src string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var schemaFiles, exampleFiles int
	g.log.Info("Document processing starting", zap.String("from", src))
	defer func(start time.Time) {
		if err == nil {
			g.log.Info("Document processing completed", zap.Duration("elapsed", time.Since(start)),
				zap.Int("schemas", schemaFiles), zap.Int("examples", exampleFiles))
		}
	}(time.Now())

	c, err := content.Load(ctx, r, src, g.cfg, g.log)
	if err != nil {
		return err
	}

	defs, err := idoc.Build(c.Fragments, g.cfg.NestedDetection, g.log.Named("idoc"))
	if err != nil {
		return fmt.Errorf("unable to build record definitions (%s): %w", src, err)
	}

	g.documents++
	if g.rpt != nil {
		base := fmt.Sprintf("%03d-%s", g.documents, config.CleanFileName(src))
		g.rpt.StoreData("content/"+base+".txt", []byte(c.String()))
		g.rpt.StoreData("records/"+base+".txt", []byte(idoc.Dump(defs)))
	}

	names, err := nameFunc("schema", g.cfg.Schema.FileNameTemplate, src, g.cfg.Schema.Extension)
	if err != nil {
		return err
	}
	schemaFiles, err = g.schemas.WithNames(names).EmitAll(ctx, defs, g.cfg.Parallel)
	g.schemaFiles += schemaFiles
	if err != nil {
		return fmt.Errorf("unable to write schemas (%s): %w", src, err)
	}

	if g.examples == nil {
		return nil
	}
	names, err = nameFunc("examples", g.cfg.Examples.FileNameTemplate, src, ".json")
	if err != nil {
		return err
	}
	exampleFiles, err = g.examples.WithNames(names).EmitAll(ctx, defs, g.cfg.Parallel)
	g.exampleFiles += exampleFiles
	if err != nil {
		return fmt.Errorf("unable to write examples (%s): %w", src, err)
	}
	return nil
}
