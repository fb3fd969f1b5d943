// Package generate implements "generate" command: it finds IDoc documents
// and writes RAML schemas and JSON examples for their segments.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"idoc2raml/archive"
	"idoc2raml/config"
	"idoc2raml/content"
	"idoc2raml/output"
	"idoc2raml/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate").With(zap.Stringer("run_id", env.RunID))

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// command line overrides configuration
	doc := &env.Cfg.Document
	if cmd.Bool("examples") {
		doc.Examples.Generate = true
	}
	if cmd.Bool("emit-once") {
		doc.Schema.EmitOnce = true
	}
	if cmd.Bool("parallel") {
		doc.Parallel = true
	}
	if mode := cmd.String("detect"); len(mode) > 0 {
		detection, err := config.ParseNestedDetection(mode)
		if err != nil {
			return fmt.Errorf("unknown nested detection mode: %w", err)
		}
		doc.NestedDetection = detection
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	g := newGenerator(doc, env.Rpt, output.NewDir(dst), log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("detection", doc.NestedDetection), zap.Bool("examples", doc.Examples.Generate),
		zap.Bool("emit_once", doc.Schema.EmitOnce), zap.Bool("parallel", doc.Parallel))
	defer func(start time.Time) {
		if err == nil {
			log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)),
				zap.Int("documents", g.documents), zap.Int("schemas", g.schemaFiles), zap.Int("examples", g.exampleFiles))
		}
	}(time.Now())

	return process(ctx, g, src)
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly. Processing stops on first error.
func process(ctx context.Context, g *generator, src string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, g, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, g, head, filepath.ToSlash(tail), "", true); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		isDoc, enc, err := isDocumentFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if isDoc && len(tail) == 0 {
			return processFile(ctx, g, head, filepath.Base(head), enc)
		}
		return fmt.Errorf("input was not recognized as IDoc XML document (%s)", head)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

func processFile(ctx context.Context, g *generator, path, src string, enc srcEncoding) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := g.rpt.StoreCopy("source/"+filepath.Base(path), path); err != nil {
		g.log.Debug("Unable to store source in debug report", zap.String("file", path), zap.Error(err))
	}
	return g.processDocument(ctx, selectReader(file, enc), src)
}

// skippable reports whether error from processing one of many documents
// found while walking a directory or archive should not stop processing.
func skippable(err error) bool {
	return errors.Is(err, content.ErrNoContainer)
}

// processDir walks directory tree in natural order finding IDoc documents
// and archives and processes them.
func processDir(ctx context.Context, g *generator, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			g.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			g.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			count++
			if err := processArchive(ctx, g, path, "", filepath.Dir(rel), false); err != nil {
				return fmt.Errorf("unable to process archive (%s): %w", path, err)
			}
			continue
		}

		isDoc, enc, err := isDocumentFile(path)
		if err != nil {
			g.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !isDoc {
			g.log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			continue
		}

		count++
		if err := processFile(ctx, g, path, rel, enc); err != nil {
			if skippable(err) {
				g.log.Warn("Skipping file, not an IDoc document", zap.String("file", path), zap.Error(err))
				continue
			}
			return fmt.Errorf("unable to process file (%s): %w", path, err)
		}
	}

	if count == 0 {
		g.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

// processArchive walks all files inside archive, finds IDoc documents under
// "pathIn" and processes them. When single entry was explicitly requested any
// problem with it is an error.
func processArchive(ctx context.Context, g *generator, path, pathIn, pathOut string, explicit bool) error {
	count := 0
	cp := state.EnvFromContext(ctx).CodePage

	err := archive.Walk(path, pathIn, cp, func(archivePath string, entry archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		isDoc, enc, err := isDocumentInArchive(entry.File)
		if err != nil {
			return fmt.Errorf("unable to check file type (%s): %w", entry.Name, err)
		}
		if !isDoc {
			if explicit && entry.Name == pathIn {
				return fmt.Errorf("input was not recognized as IDoc XML document (%s)", entry.Name)
			}
			g.log.Debug("Skipping file, not recognized as document", zap.String("archive", archivePath), zap.String("file", entry.Name))
			return nil
		}

		count++

		r, err := entry.File.Open()
		if err != nil {
			return fmt.Errorf("unable to open file in archive (%s): %w", entry.Name, err)
		}
		defer r.Close()

		src := filepath.Join(pathOut, filepath.FromSlash(entry.Name))
		if err := g.processDocument(ctx, selectReader(r, enc), src); err != nil {
			if skippable(err) && entry.Name != pathIn {
				g.log.Warn("Skipping file in archive, not an IDoc document",
					zap.String("archive", archivePath), zap.String("file", entry.Name), zap.Error(err))
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if count == 0 {
		if explicit && len(pathIn) > 0 {
			return fmt.Errorf("input source was not found in archive (%s) => (%s)", path, pathIn)
		}
		g.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return nil
}
