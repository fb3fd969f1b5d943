package schema

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"idoc2raml/config"
	"idoc2raml/idoc"
	"idoc2raml/output"
)

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func defaultConfig() *config.SchemaConfig {
	return &config.SchemaConfig{Extension: ".raml", NumberType: "number"}
}

func scalar(name string, typ idoc.Type, value string) idoc.TypedAttribute {
	return idoc.TypedAttribute{Name: name, Type: typ, Value: value}
}

func object(def *idoc.RecordDefinition) idoc.TypedAttribute {
	return idoc.TypedAttribute{Name: def.Name, Type: idoc.TypeObject, Record: def}
}

// header with two nested kinds
func sampleTree() *idoc.RecordDefinition {
	return &idoc.RecordDefinition{
		Name: "E1EDK01",
		Attributes: []idoc.TypedAttribute{
			scalar("ACTION", idoc.TypeFloat, "004"),
			scalar("CURCY", idoc.TypeString, "EUR"),
			object(&idoc.RecordDefinition{
				Name:       "E1EDK14",
				Attributes: []idoc.TypedAttribute{scalar("QUALF", idoc.TypeFloat, "012")},
			}),
			scalar("BELNR", idoc.TypeString, "PO-1"),
			object(&idoc.RecordDefinition{
				Name:       "E1EDKA1",
				Attributes: []idoc.TypedAttribute{scalar("PARVW", idoc.TypeString, "AG")},
			}),
		},
	}
}

func TestRender(t *testing.T) {
	data, err := Render(sampleTree(), "number", output.KindName(".raml"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `#%RAML 1.0 Library

uses:
  E1EDK14: E1EDK14.raml
  E1EDKA1: E1EDKA1.raml
types:
  E1EDK01:
    type: object
    properties:
      ACTION: number
      CURCY: string
      E1EDK14: E1EDK14.E1EDK14
      BELNR: string
      E1EDKA1: E1EDKA1.E1EDKA1
`
	if string(data) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", data, want)
	}
}

func TestRender_NoNested(t *testing.T) {
	def := &idoc.RecordDefinition{
		Name:       "E1EDK14",
		Attributes: []idoc.TypedAttribute{scalar("QUALF", idoc.TypeFloat, "012")},
	}
	data, err := Render(def, "float", output.KindName(".raml"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `#%RAML 1.0 Library

types:
  E1EDK14:
    type: object
    properties:
      QUALF: float
`
	if string(data) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", data, want)
	}
}

func TestRender_UnknownType(t *testing.T) {
	def := &idoc.RecordDefinition{
		Name:       "X",
		Attributes: []idoc.TypedAttribute{{Name: "A", Type: idoc.Type(42)}},
	}
	if _, err := Render(def, "number", output.KindName(".raml")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestEmit_FileCount(t *testing.T) {
	sink := output.NewMemory()
	e := New(sink, defaultConfig(), nil, testLogger(t))

	n, err := e.Emit(context.Background(), sampleTree())
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Emit() = %d, want 3", n)
	}
	names := sink.Names()
	if want := []string{"E1EDK14.raml", "E1EDKA1.raml", "E1EDK01.raml"}; !slices.Equal(names, want) {
		t.Errorf("written files = %v, want %v", names, want)
	}
}

func TestEmit_Idempotent(t *testing.T) {
	run := func() map[string][]byte {
		dir := t.TempDir()
		e := New(output.NewDir(dir), defaultConfig(), nil, testLogger(t))
		if _, err := e.Emit(context.Background(), sampleTree()); err != nil {
			t.Fatalf("Emit() error = %v", err)
		}
		files := map[string][]byte{}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				t.Fatal(err)
			}
			files[entry.Name()] = data
		}
		return files
	}

	first, second := run(), run()
	if len(first) != 3 || len(first) != len(second) {
		t.Fatalf("unexpected file sets: %d vs %d", len(first), len(second))
	}
	for name, data := range first {
		if !bytes.Equal(data, second[name]) {
			t.Errorf("file %s differs between runs", name)
		}
	}
}

func TestEmit_RepeatedReferences(t *testing.T) {
	shared := func() *idoc.RecordDefinition {
		return &idoc.RecordDefinition{
			Name:       "E1EDS01",
			Attributes: []idoc.TypedAttribute{scalar("SUMID", idoc.TypeFloat, "1")},
		}
	}
	defs := []*idoc.RecordDefinition{
		{Name: "E1EDK01", Attributes: []idoc.TypedAttribute{object(shared())}},
		{Name: "E1EDP01", Attributes: []idoc.TypedAttribute{object(shared())}},
	}

	tests := []struct {
		name      string
		emitOnce  bool
		parallel  bool
		wantCount int
	}{
		{name: "per reference", emitOnce: false, wantCount: 4},
		{name: "once", emitOnce: true, wantCount: 3},
		{name: "per reference parallel", emitOnce: false, parallel: true, wantCount: 4},
		{name: "once parallel", emitOnce: true, parallel: true, wantCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.EmitOnce = tt.emitOnce
			sink := output.NewMemory()
			e := New(sink, cfg, nil, testLogger(t))

			n, err := e.EmitAll(context.Background(), defs, tt.parallel)
			if err != nil {
				t.Fatalf("EmitAll() error = %v", err)
			}
			if n != tt.wantCount || sink.Writes() != tt.wantCount {
				t.Errorf("EmitAll() = %d (writes %d), want %d", n, sink.Writes(), tt.wantCount)
			}
			if len(sink.Names()) != 3 {
				t.Errorf("expected 3 distinct files, got %v", sink.Names())
			}
		})
	}
}

func TestEmit_AncestorNameCollision(t *testing.T) {
	inner := &idoc.RecordDefinition{
		Name:       "SEG",
		Attributes: []idoc.TypedAttribute{scalar("INNER", idoc.TypeString, "x")},
	}
	outer := &idoc.RecordDefinition{
		Name:       "SEG",
		Attributes: []idoc.TypedAttribute{scalar("OUTER", idoc.TypeString, "y"), object(inner)},
	}

	sink := output.NewMemory()
	e := New(sink, defaultConfig(), nil, testLogger(t))
	n, err := e.Emit(context.Background(), outer)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Emit() = %d, want 2", n)
	}
	data, _ := sink.File("SEG.raml")
	if !bytes.Contains(data, []byte("OUTER: string")) {
		t.Errorf("outer definition should be kept:\n%s", data)
	}
}

func TestRender_NestedSharesFile(t *testing.T) {
	def := &idoc.RecordDefinition{
		Name: "SEG",
		Attributes: []idoc.TypedAttribute{
			scalar("OUTER", idoc.TypeString, "y"),
			object(&idoc.RecordDefinition{
				Name:       "SEG",
				Attributes: []idoc.TypedAttribute{scalar("INNER", idoc.TypeString, "x")},
			}),
		},
	}
	data, err := Render(def, "number", output.KindName(".raml"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := Header + `

types:
  SEG:
    type: object
    properties:
      OUTER: string
      SEG: SEG
`
	if string(data) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", data, want)
	}
}

func TestRender_Aliases(t *testing.T) {
	nested := func(kind string) idoc.TypedAttribute {
		return idoc.TypedAttribute{Name: kind, Type: idoc.TypeObject, Record: &idoc.RecordDefinition{
			Name:       kind,
			Attributes: []idoc.TypedAttribute{scalar("F", idoc.TypeString, "v")},
		}}
	}
	def := &idoc.RecordDefinition{
		Name:       "ROOT",
		Attributes: []idoc.TypedAttribute{nested("A.B"), nested("A_B"), nested("n:X"), nested("1ST")},
	}
	data, err := Render(def, "number", output.KindName(".raml"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := Header + `

uses:
  A_B: A.B.raml
  A_B_2: A_B.raml
  n_X: n_X.raml
  _1ST: 1ST.raml
types:
  ROOT:
    type: object
    properties:
      A.B: A_B.A.B
      A_B: A_B_2.A_B
      n:X: n_X.n:X
      1ST: _1ST.1ST
`
	if string(data) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", data, want)
	}
}

func TestAliasName(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{kind: "E1EDK01", want: "E1EDK01"},
		{kind: "A.B", want: "A_B"},
		{kind: "n:X", want: "n_X"},
		{kind: "1ST", want: "_1ST"},
		{kind: "", want: "_"},
		{kind: "Ä", want: "_"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := aliasName(tt.kind); got != tt.want {
				t.Errorf("aliasName(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestEmit_CustomNames(t *testing.T) {
	sink := output.NewMemory()
	names := func(kind string) (string, error) { return "lib_" + kind + ".raml", nil }
	e := New(sink, defaultConfig(), names, testLogger(t))

	if _, err := e.Emit(context.Background(), sampleTree()); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	data, ok := sink.File("lib_E1EDK01.raml")
	if !ok {
		t.Fatalf("custom named file missing, have %v", sink.Names())
	}
	if !bytes.Contains(data, []byte("E1EDK14: lib_E1EDK14.raml")) {
		t.Errorf("uses entry should point to custom file name:\n%s", data)
	}
}

func TestEmit_Errors(t *testing.T) {
	t.Run("naming failure", func(t *testing.T) {
		boom := errors.New("boom")
		e := New(output.NewMemory(), defaultConfig(), func(string) (string, error) { return "", boom }, testLogger(t))
		if _, err := e.Emit(context.Background(), sampleTree()); !errors.Is(err, boom) {
			t.Errorf("Emit() error = %v, want wrapped boom", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := New(output.NewMemory(), defaultConfig(), nil, testLogger(t))
		if _, err := e.EmitAll(ctx, []*idoc.RecordDefinition{sampleTree()}, false); !errors.Is(err, context.Canceled) {
			t.Errorf("EmitAll() error = %v, want context.Canceled", err)
		}
	})
}

func TestEmitter_WithNamesSharesEmittedFiles(t *testing.T) {
	cfg := defaultConfig()
	cfg.EmitOnce = true
	sink := output.NewMemory()
	first := New(sink, cfg, nil, testLogger(t))
	same := first.WithNames(nil)
	other := first.WithNames(func(kind string) (string, error) { return "other_" + kind + ".raml", nil })

	if n, err := first.Emit(context.Background(), sampleTree()); err != nil || n != 3 {
		t.Fatalf("first Emit() = %d, %v", n, err)
	}
	if n, err := same.Emit(context.Background(), sampleTree()); err != nil || n != 0 {
		t.Errorf("same naming Emit() = %d, %v, want nothing written", n, err)
	}
	// different naming means different files, all of them must exist
	if n, err := other.Emit(context.Background(), sampleTree()); err != nil || n != 3 {
		t.Errorf("other naming Emit() = %d, %v, want 3", n, err)
	}
	for _, name := range []string{"other_E1EDK01.raml", "other_E1EDK14.raml", "other_E1EDKA1.raml"} {
		if _, ok := sink.File(name); !ok {
			t.Errorf("%s missing, have %v", name, sink.Names())
		}
	}
	if n, err := other.Emit(context.Background(), sampleTree()); err != nil || n != 0 {
		t.Errorf("repeated other naming Emit() = %d, %v, want nothing written", n, err)
	}
}
