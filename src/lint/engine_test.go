package lint

import (
	"context"
	"errors"
	"testing"
)

type fakeModule struct {
	name    string
	enabled bool
	fail    bool
	only    *FileKind
}

func (m *fakeModule) Name() string        { return m.name }
func (m *fakeModule) DefaultEnabled() bool { return m.enabled }

func (m *fakeModule) Applies(kind FileKind) bool {
	return m.only == nil || *m.only == kind
}

func (m *fakeModule) Check(ctx context.Context, file FileInfo) ([]Finding, error) {
	if m.fail {
		return nil, errors.New("boom")
	}
	return []Finding{
		{File: file.Path, Line: 2, Module: m.name, Severity: SeverityWarning, Message: "second"},
		{File: file.Path, Line: 1, Module: m.name, Severity: SeverityCritical, Message: "first"},
	}, nil
}

func init() {
	Register("fake-on", func() Module { return &fakeModule{name: "fake-on", enabled: true} })
	Register("fake-off", func() Module { return &fakeModule{name: "fake-off"} })
	Register("fake-fail", func() Module { return &fakeModule{name: "fake-fail", fail: true} })
	Register("fake-signing", func() Module {
		kind := KindSigning
		return &fakeModule{name: "fake-signing", only: &kind}
	})
}

func TestNewEngineSelection(t *testing.T) {
	e, err := NewEngine(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Modules) != 1 || e.Modules[0].Name() != "fake-on" {
		t.Errorf("default modules = %v", e.Modules)
	}

	e, err = NewEngine([]string{"fake-off", "fake-on"}, []string{"fake-on"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Modules) != 1 || e.Modules[0].Name() != "fake-off" {
		t.Errorf("explicit modules = %v", e.Modules)
	}

	if _, err := NewEngine([]string{"nope"}, nil, nil); err == nil {
		t.Error("unknown module should fail")
	}
	if _, err := NewEngine(nil, []string{"fake-on"}, nil); err == nil {
		t.Error("empty selection should fail")
	}
}

func TestEngineRun(t *testing.T) {
	e, err := NewEngine([]string{"fake-on"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	files := []FileInfo{{Path: "b.yml"}, {Path: "a.yml", Kind: KindSigning}}

	findings, stats, err := e.Run(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 4 {
		t.Fatalf("got %d findings", len(findings))
	}
	if findings[0].File != "a.yml" || findings[0].Line != 1 || findings[3].File != "b.yml" || findings[3].Line != 2 {
		t.Errorf("findings not sorted: %+v", findings)
	}
	if stats[0].Files != 2 || stats[0].Critical != 2 || stats[0].Warnings != 2 {
		t.Errorf("stats = %+v", stats[0])
	}
}

func TestEngineRunErrors(t *testing.T) {
	e, err := NewEngine([]string{"fake-fail"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.Run(context.Background(), []FileInfo{{Path: "x.yml"}}); err == nil {
		t.Error("module error should surface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := e.Run(ctx, []FileInfo{{Path: "x.yml"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEngineRunSkipsOtherKinds(t *testing.T) {
	e, err := NewEngine([]string{"fake-signing", "fake-on"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	files := []FileInfo{{Path: "buildcfg.yml"}, {Path: "signing.yml", Kind: KindSigning}}

	findings, stats, err := e.Run(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 6 {
		t.Errorf("got %d findings, want 6", len(findings))
	}
	for _, f := range findings {
		if f.Module == "fake-signing" && f.File != "signing.yml" {
			t.Errorf("fake-signing ran on %s", f.File)
		}
	}
	if stats[0].Name != "fake-signing" || stats[0].Files != 1 {
		t.Errorf("fake-signing stats = %+v", stats[0])
	}
	if stats[1].Files != 2 {
		t.Errorf("fake-on stats = %+v", stats[1])
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}
	if _, err := New("missing"); err == nil {
		t.Error("New should reject unknown modules")
	}
}
