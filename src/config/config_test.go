package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	want, err := Load("testdata/flutter.yml")
	if err != nil {
		t.Fatalf("Load yaml: %v", err)
	}

	for _, path := range []string{"testdata/flutter.toml", "testdata/flutter.hcl"} {
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load %s: %v", path, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s differs from yaml (-yaml +got):\n%s", path, diff)
		}
	}

	if *want.ApplicationID != "com.example.hello_flutter" || *want.MinPlatformVersion != 21 {
		t.Errorf("unexpected descriptor: %+v", want)
	}
	if s := want.Variants["release"].Signing; s == nil || *s != "debug" {
		t.Errorf("release signing = %v, want debug", s)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown yaml key", "a.yml", "version: 1\nminSdk: 21\n", "field minSdk not found"},
		{"unknown toml key", "a.toml", "version = 1\nminSdk = 21\n", "parse TOML"},
		{"unknown hcl attribute", "a.hcl", "version = 1\nminSdk = 21\n", "decode HCL"},
		{"no version", "a.yml", "application_id: x\n", "buildcfg migrate"},
		{"future version", "a.yml", "version: 7\n", "unknown descriptor version 7"},
		{"empty file", "a.yml", "", "no version field"},
		{"unsupported extension", "a.json", "{}", "unsupported descriptor extension"},
		{"duplicate hcl variant", "a.hcl", "version = 1\nvariant \"release\" {}\nvariant \"release\" {}\n", "duplicate variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.file, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("missing descriptor should be an error")
	}
}

func TestParseHCLEnv(t *testing.T) {
	src := `
version          = 1
application_id   = "com.example.app"
version_code     = env.BUILD_NUMBER
version_name     = "1.4.${env.BUILD_NUMBER}"
`
	raw, err := ParseHCL([]byte(src), "buildcfg.hcl", map[string]string{"BUILD_NUMBER": "42"})
	if err != nil {
		t.Fatalf("ParseHCL: %v", err)
	}
	if raw.VersionCode == nil || *raw.VersionCode != 42 {
		t.Errorf("version_code = %v, want 42", raw.VersionCode)
	}
	if raw.VersionName == nil || *raw.VersionName != "1.4.42" {
		t.Errorf("version_name = %v, want 1.4.42", raw.VersionName)
	}

	if _, err := ParseHCL([]byte(src), "buildcfg.hcl", nil); err == nil {
		t.Error("reference to unset env var should fail")
	}
}

func TestMigrateLegacy(t *testing.T) {
	data, err := os.ReadFile("testdata/legacy.yml")
	if err != nil {
		t.Fatal(err)
	}

	out, err := MigrateToLatest(data)
	if err != nil {
		t.Fatalf("MigrateToLatest: %v", err)
	}

	got, err := Parse(out, FormatYAML, "migrated.yml")
	if err != nil {
		t.Fatalf("migrated output does not load: %v\n%s", err, out)
	}

	want, err := Load("testdata/flutter.yml")
	if err != nil {
		t.Fatal(err)
	}
	// The legacy layout has no toolchain constraint and spells the level
	// the Gradle way.
	want.ToolchainConstraint = ""
	want.LanguageLevel = "VERSION_11"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("migrated descriptor (-want +got):\n%s", diff)
	}
}

func TestMigrateToLatest(t *testing.T) {
	current := []byte("version: 1\napplication_id: x\n")
	out, err := MigrateToLatest(current)
	if err != nil || string(out) != string(current) {
		t.Errorf("version 1 should pass through unchanged: %q, %v", out, err)
	}

	out, err = MigrateToLatest([]byte("version: 0\napplicationId: com.example.app\nminSdk: 21\n"))
	if err != nil {
		t.Fatalf("explicit version 0: %v", err)
	}
	raw, err := Parse(out, FormatYAML, "migrated.yml")
	if err != nil {
		t.Fatalf("migrated output does not load: %v\n%s", err, out)
	}
	if raw.Version != CurrentVersion || raw.ApplicationID == nil || *raw.ApplicationID != "com.example.app" {
		t.Errorf("migrated = %+v", raw)
	}

	if _, err := MigrateToLatest([]byte("version: 2\n")); err == nil {
		t.Error("unknown version should be rejected")
	}
	if _, err := MigrateToLatest([]byte("applicationId: x\nbogus: 1\n")); err == nil {
		t.Error("unknown legacy key should be rejected")
	}
	if _, err := MigrateToLatest([]byte("sourceCompatibility: VERSION_11\njvmTarget: \"17\"\n")); err == nil {
		t.Error("disagreeing language levels should be rejected")
	}
}

func TestValidateWarnings(t *testing.T) {
	raw := &RawDescriptor{
		Namespace:     "com.example.ns",
		ApplicationID: String("com.example.app"),
		Plugins:       []string{FlutterPlugin, "com.android.application", "com.android.application"},
		FlutterSource: "/abs/flutter",
		Variants: map[string]RawVariant{
			"release": {Debuggable: Bool(true), Signing: String("debug")},
		},
	}

	warnings := Validate(raw)
	wantSubstrings := []string{
		"must be applied last",
		"duplicate plugin",
		"differs from application_id",
		"should be relative",
		"debuggable builds",
		"signed with the debug key",
	}
	if len(warnings) != len(wantSubstrings) {
		t.Fatalf("got %d warnings, want %d: %v", len(warnings), len(wantSubstrings), warnings)
	}
	joined := strings.Join(warnings, "\n")
	for _, s := range wantSubstrings {
		if !strings.Contains(joined, s) {
			t.Errorf("missing warning containing %q in:\n%s", s, joined)
		}
	}

	clean, err := Load("testdata/flutter.yml")
	if err != nil {
		t.Fatal(err)
	}
	// The shell signs release with the debug key; that is the only warning.
	if w := Validate(clean); len(w) != 1 {
		t.Errorf("flutter.yml warnings = %v", w)
	}
}

func TestValidateVariantOrder(t *testing.T) {
	raw := &RawDescriptor{
		Variants: map[string]RawVariant{
			"staging": {Signing: String("debug")},
			"debug":   {Debuggable: Bool(true), Signing: String("debug")},
			"beta":    {Debuggable: Bool(true)},
			"release": {Signing: String("debug")},
		},
	}

	want := []string{
		"variants.beta: debuggable builds are rejected by app stores",
		"variants.release: signed with the debug key",
		"variants.staging: signed with the debug key",
	}
	for range 10 {
		if diff := cmp.Diff(want, Validate(raw)); diff != "" {
			t.Fatalf("warnings (-want +got):\n%s", diff)
		}
	}
}

func TestParseHCLDuplicateVariant(t *testing.T) {
	src := `
version = 1
variant "release" {
  minify = true
}
variant "staging" {}
variant "release" {
  minify = false
}
`
	_, err := ParseHCL([]byte(src), "buildcfg.hcl", nil)
	if err == nil {
		t.Fatal("duplicate variant block should be rejected")
	}
	if !strings.Contains(err.Error(), `duplicate variant block "release"`) {
		t.Errorf("err = %v", err)
	}

	raw, err := ParseHCL([]byte("version = 1\nvariant \"release\" {}\nvariant \"staging\" {}\n"), "buildcfg.hcl", nil)
	if err != nil {
		t.Fatalf("distinct variants: %v", err)
	}
	if len(raw.Variants) != 2 {
		t.Errorf("variants = %v", raw.Variants)
	}
}
