package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// FlutterPlugin is the Flutter Gradle plugin id. It must be applied last.
const FlutterPlugin = "dev.flutter.flutter-gradle-plugin"

// Validate reports soft issues in a raw descriptor that do not block
// resolution. Hard errors (missing fields, bad ordering, unknown signing
// entries) belong to the resolver.
func Validate(raw *RawDescriptor) (warnings []string) {
	// ── Plugins ───────────────────────────────────────────────────────────

	seen := make(map[string]bool, len(raw.Plugins))
	for i, p := range raw.Plugins {
		ppath := fmt.Sprintf("plugins[%d]", i)
		if strings.TrimSpace(p) == "" {
			warnings = append(warnings, fmt.Sprintf("%s: empty plugin id", ppath))
			continue
		}
		if seen[p] {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate plugin %q", ppath, p))
		}
		seen[p] = true

		if p == FlutterPlugin && i != len(raw.Plugins)-1 {
			warnings = append(warnings, fmt.Sprintf("%s: %s must be applied last", ppath, FlutterPlugin))
		}
	}

	// ── Identity ──────────────────────────────────────────────────────────

	if raw.Namespace != "" && raw.ApplicationID != nil && raw.Namespace != *raw.ApplicationID {
		warnings = append(warnings, fmt.Sprintf("namespace %q differs from application_id %q", raw.Namespace, *raw.ApplicationID))
	}

	// ── Flutter source ────────────────────────────────────────────────────

	if raw.FlutterSource != "" {
		warnings = append(warnings, validateSourcePath(raw.FlutterSource)...)
	}

	// ── Variants ──────────────────────────────────────────────────────────

	for _, name := range slices.Sorted(maps.Keys(raw.Variants)) {
		if name == "debug" {
			continue
		}
		v := raw.Variants[name]
		vpath := fmt.Sprintf("variants.%s", name)
		if v.Debuggable != nil && *v.Debuggable {
			warnings = append(warnings, fmt.Sprintf("%s: debuggable builds are rejected by app stores", vpath))
		}
		if v.Signing != nil && *v.Signing == "debug" {
			warnings = append(warnings, fmt.Sprintf("%s: signed with the debug key", vpath))
		}
	}

	return warnings
}

// validateSourcePath checks that the Flutter source path is a relative path.
func validateSourcePath(p string) []string {
	var warns []string

	if filepath.IsAbs(p) {
		warns = append(warns, fmt.Sprintf("flutter_source: %q should be relative to the Android project", p))
		return warns
	}

	if strings.HasPrefix(p, "~") {
		warns = append(warns, fmt.Sprintf("flutter_source: %q must not start with ~", p))
		return warns
	}

	// Windows drive prefix
	if len(p) >= 2 && p[1] == ':' && ((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z')) {
		warns = append(warns, fmt.Sprintf("flutter_source: %q looks like a Windows drive path", p))
		return warns
	}

	return warns
}
