package config

// RawDescriptor is a build descriptor exactly as declared in a file, before
// resolution. Pointer fields distinguish "absent" from a zero value: only an
// absent required field is reported missing.
type RawDescriptor struct {
	// Version is the descriptor schema version. Current: 1.
	Version int `yaml:"version" toml:"version"`

	// Namespace is the Android namespace. Default: the application id.
	Namespace string `yaml:"namespace,omitempty" toml:"namespace,omitempty"`

	ApplicationID *string `yaml:"application_id,omitempty" toml:"application_id,omitempty"`

	// ── platform (SDK) levels ─────────────────────────────────────────────

	MinPlatformVersion     *int `yaml:"min_platform_version,omitempty" toml:"min_platform_version,omitempty"`
	TargetPlatformVersion  *int `yaml:"target_platform_version,omitempty" toml:"target_platform_version,omitempty"`
	CompilePlatformVersion *int `yaml:"compile_platform_version,omitempty" toml:"compile_platform_version,omitempty"`

	// ── toolchain ─────────────────────────────────────────────────────────

	// ToolchainVersion is the pinned NDK version, e.g. "27.0.12077973".
	ToolchainVersion *string `yaml:"toolchain_version,omitempty" toml:"toolchain_version,omitempty"`

	// ToolchainConstraint is an optional semver constraint the toolchain
	// version must satisfy (e.g. ">= 27.0" when a plugin needs NDK 27).
	ToolchainConstraint string `yaml:"toolchain_constraint,omitempty" toml:"toolchain_constraint,omitempty"`

	// LanguageLevel is the Java source/target compatibility and Kotlin
	// jvmTarget. Shared by every variant. Default: "11".
	LanguageLevel string `yaml:"language_level,omitempty" toml:"language_level,omitempty"`

	// ── app identity ──────────────────────────────────────────────────────

	VersionCode *int    `yaml:"version_code,omitempty" toml:"version_code,omitempty"`
	VersionName *string `yaml:"version_name,omitempty" toml:"version_name,omitempty"`

	MultiDex bool `yaml:"multidex,omitempty" toml:"multidex,omitempty"`

	// Plugins is ordered; the Flutter Gradle plugin must come last.
	Plugins []string `yaml:"plugins,omitempty" toml:"plugins,omitempty"`

	// PackagingExclusions are resource glob patterns excluded from every
	// variant's package.
	PackagingExclusions []string `yaml:"packaging_exclusions,omitempty" toml:"packaging_exclusions,omitempty"`

	// FlutterSource is the path to the Flutter project root. Default: "../..".
	FlutterSource string `yaml:"flutter_source,omitempty" toml:"flutter_source,omitempty"`

	// Variants holds per-variant overrides keyed by variant name.
	// Empty means the implicit debug and release variants.
	Variants map[string]RawVariant `yaml:"variants,omitempty" toml:"variants,omitempty"`
}

// RawVariant holds the overrides a single build variant declares on top of
// the descriptor-level settings.
type RawVariant struct {
	// Signing names an entry in the external signing table. nil inherits the
	// variant default ("debug" for debug, unsigned for release); an explicit
	// empty string means unsigned.
	Signing *string `yaml:"signing,omitempty" toml:"signing,omitempty"`

	Minify          bool  `yaml:"minify,omitempty" toml:"minify,omitempty"`
	ShrinkResources bool  `yaml:"shrink_resources,omitempty" toml:"shrink_resources,omitempty"`
	Debuggable      *bool `yaml:"debuggable,omitempty" toml:"debuggable,omitempty"`

	ApplicationIDSuffix string `yaml:"application_id_suffix,omitempty" toml:"application_id_suffix,omitempty"`
	VersionNameSuffix   string `yaml:"version_name_suffix,omitempty" toml:"version_name_suffix,omitempty"`

	// PackagingExclusions are added to the descriptor-level exclusions.
	PackagingExclusions []string `yaml:"packaging_exclusions,omitempty" toml:"packaging_exclusions,omitempty"`
}

// Clone returns a deep copy so callers can adjust a descriptor (e.g. fill
// git-derived versions) without touching the original.
func (r RawDescriptor) Clone() RawDescriptor {
	c := r
	c.ApplicationID = clonePtr(r.ApplicationID)
	c.MinPlatformVersion = clonePtr(r.MinPlatformVersion)
	c.TargetPlatformVersion = clonePtr(r.TargetPlatformVersion)
	c.CompilePlatformVersion = clonePtr(r.CompilePlatformVersion)
	c.ToolchainVersion = clonePtr(r.ToolchainVersion)
	c.VersionCode = clonePtr(r.VersionCode)
	c.VersionName = clonePtr(r.VersionName)
	c.Plugins = append([]string(nil), r.Plugins...)
	c.PackagingExclusions = append([]string(nil), r.PackagingExclusions...)
	if r.Variants != nil {
		c.Variants = make(map[string]RawVariant, len(r.Variants))
		for name, v := range r.Variants {
			v.Signing = clonePtr(v.Signing)
			v.Debuggable = clonePtr(v.Debuggable)
			v.PackagingExclusions = append([]string(nil), v.PackagingExclusions...)
			c.Variants[name] = v
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// String returns a pointer to s, for building descriptors in code.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
