// Package resolve turns a raw build descriptor into a validated, immutable
// BuildDescriptor. Resolution is a pure function of its inputs: no I/O, no
// logging, and the raw descriptor is never modified.
package resolve

import (
	"fmt"
	"slices"
	"sort"

	"github.com/sofmeright/buildcfg/src/config"
)

// Defaults used when a descriptor leaves the field unset.
const (
	DefaultVersionCode   = 1
	DefaultVersionName   = "1.0"
	DefaultFlutterSource = "../.."
)

// SigningTable is the external signing-config table. Resolve only asks
// whether a name exists; credentials never pass through the resolver.
type SigningTable interface {
	Has(name string) bool
}

// variantDefaults are the implicit settings of the two build variants
// before any override is applied.
var variantDefaults = map[string]struct {
	signing    string
	debuggable bool
}{
	VariantDebug:   {signing: "debug", debuggable: true},
	VariantRelease: {signing: "", debuggable: false},
}

// Resolve validates raw against the signing table and returns the resolved
// descriptor. On failure it returns Errors listing every problem found and a
// zero BuildDescriptor; there is no partial result.
func Resolve(raw config.RawDescriptor, table SigningTable) (BuildDescriptor, error) {
	var errs Errors

	// ── Required fields ───────────────────────────────────────────────────

	if raw.ApplicationID == nil {
		errs.add(ErrMissingField, "", "application_id", "")
	} else if *raw.ApplicationID == "" {
		errs.add(ErrInvalidValue, "", "application_id", "must not be empty")
	}
	if raw.MinPlatformVersion == nil {
		errs.add(ErrMissingField, "", "min_platform_version", "")
	}
	if raw.TargetPlatformVersion == nil {
		errs.add(ErrMissingField, "", "target_platform_version", "")
	}
	if raw.CompilePlatformVersion == nil {
		errs.add(ErrMissingField, "", "compile_platform_version", "")
	}
	if raw.ToolchainVersion == nil {
		errs.add(ErrMissingField, "", "toolchain_version", "")
	}

	// ── Platform ordering ─────────────────────────────────────────────────

	minV, targetV, compileV := deref(raw.MinPlatformVersion), deref(raw.TargetPlatformVersion), deref(raw.CompilePlatformVersion)
	if raw.MinPlatformVersion != nil && minV < 1 {
		errs.add(ErrInvalidValue, "", "min_platform_version", fmt.Sprintf("platform level must be positive, got %d", minV))
	}
	if raw.MinPlatformVersion != nil && raw.TargetPlatformVersion != nil && minV > targetV {
		errs.add(ErrInvalidVersionOrdering, "", "min_platform_version",
			fmt.Sprintf("min %d is greater than target %d", minV, targetV))
	}
	if raw.TargetPlatformVersion != nil && raw.CompilePlatformVersion != nil && targetV > compileV {
		errs.add(ErrInvalidVersionOrdering, "", "target_platform_version",
			fmt.Sprintf("target %d is greater than compile %d", targetV, compileV))
	}

	// ── Toolchain ─────────────────────────────────────────────────────────

	if raw.ToolchainVersion != nil {
		v, err := parseToolchain(*raw.ToolchainVersion)
		if err != nil {
			errs.add(ErrInvalidValue, "", "toolchain_version", err.Error())
		}
		if raw.ToolchainConstraint != "" {
			c, cerr := parseConstraint(raw.ToolchainConstraint)
			switch {
			case cerr != nil:
				errs.add(ErrInvalidValue, "", "toolchain_constraint", cerr.Error())
			case v != nil:
				if err := satisfies(v, c, raw.ToolchainConstraint); err != nil {
					errs.add(ErrInvalidValue, "", "toolchain_version", err.Error())
				}
			}
		}
	}

	level, err := ParseLanguageLevel(raw.LanguageLevel)
	if err != nil {
		errs.add(ErrInvalidValue, "", "language_level", err.Error())
	}

	// ── Identity ──────────────────────────────────────────────────────────

	versionCode := DefaultVersionCode
	if raw.VersionCode != nil {
		versionCode = *raw.VersionCode
		if versionCode < 1 {
			errs.add(ErrInvalidValue, "", "version_code", fmt.Sprintf("must be positive, got %d", versionCode))
		}
	}
	versionName := DefaultVersionName
	if raw.VersionName != nil {
		versionName = *raw.VersionName
	}

	appID := deref(raw.ApplicationID)
	namespace := raw.Namespace
	if namespace == "" {
		namespace = appID
	}
	flutterSource := raw.FlutterSource
	if flutterSource == "" {
		flutterSource = DefaultFlutterSource
	}

	// ── Packaging ─────────────────────────────────────────────────────────

	for _, p := range raw.PackagingExclusions {
		if err := ValidateGlob(p); err != nil {
			errs.add(ErrInvalidValue, "", "packaging_exclusions", err.Error())
		}
	}
	baseExclusions := normalizeSet(raw.PackagingExclusions)

	// ── Variants ──────────────────────────────────────────────────────────

	for _, name := range sortedKeys(raw.Variants) {
		if _, ok := variantDefaults[name]; !ok {
			errs.add(ErrInvalidValue, name, "", fmt.Sprintf("unknown variant (supported: %s, %s)", VariantDebug, VariantRelease))
		}
	}

	variants := make([]Variant, 0, len(variantDefaults))
	for _, name := range []string{VariantDebug, VariantRelease} {
		def := variantDefaults[name]
		rv := raw.Variants[name]

		v := Variant{
			Name:            name,
			ApplicationID:   appID + rv.ApplicationIDSuffix,
			VersionName:     versionName + rv.VersionNameSuffix,
			Minify:          rv.Minify,
			ShrinkResources: rv.ShrinkResources,
			Debuggable:      def.debuggable,
		}
		if rv.Debuggable != nil {
			v.Debuggable = *rv.Debuggable
		}

		v.SigningReference = def.signing
		if rv.Signing != nil {
			v.SigningReference = *rv.Signing
		}
		if v.SigningReference != "" && (table == nil || !table.Has(v.SigningReference)) {
			errs.add(ErrUnknownSigningConfig, name, "signing", fmt.Sprintf("no signing config named %q", v.SigningReference))
		}

		if v.ShrinkResources && !v.Minify {
			errs.add(ErrInvalidValue, name, "shrink_resources", "resource shrinking requires minify")
		}

		for _, p := range rv.PackagingExclusions {
			if err := ValidateGlob(p); err != nil {
				errs.add(ErrInvalidValue, name, "packaging_exclusions", err.Error())
			}
		}
		v.PackagingExclusions = normalizeSet(append(slices.Clone(baseExclusions), rv.PackagingExclusions...))

		variants = append(variants, v)
	}

	if len(errs) > 0 {
		return BuildDescriptor{}, errs
	}

	return BuildDescriptor{
		ApplicationID:          appID,
		Namespace:              namespace,
		MinPlatformVersion:     minV,
		TargetPlatformVersion:  targetV,
		CompilePlatformVersion: compileV,
		ToolchainVersion:       *raw.ToolchainVersion,
		LanguageLevel:          level,
		VersionCode:            versionCode,
		VersionName:            versionName,
		MultiDex:               raw.MultiDex,
		Plugins:                append([]string{}, raw.Plugins...),
		PackagingExclusions:    baseExclusions,
		FlutterSource:          flutterSource,
		Variants:               variants,
	}, nil
}

// normalizeSet returns a sorted, deduplicated, non-nil copy of in.
func normalizeSet(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return slices.Compact(out)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
