package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// Variant names. Every BuildDescriptor has exactly these two variants.
const (
	VariantDebug   = "debug"
	VariantRelease = "release"
)

// BuildDescriptor is the normalized, validated build configuration produced
// by Resolve. The exported slice fields share backing arrays with every copy
// of the value; callers use Clone before mutating them. Variant returns an
// independent copy.
type BuildDescriptor struct {
	ApplicationID          string        `json:"application_id" yaml:"application_id" toml:"application_id"`
	Namespace              string        `json:"namespace" yaml:"namespace" toml:"namespace"`
	MinPlatformVersion     int           `json:"min_platform_version" yaml:"min_platform_version" toml:"min_platform_version"`
	TargetPlatformVersion  int           `json:"target_platform_version" yaml:"target_platform_version" toml:"target_platform_version"`
	CompilePlatformVersion int           `json:"compile_platform_version" yaml:"compile_platform_version" toml:"compile_platform_version"`
	ToolchainVersion       string        `json:"toolchain_version" yaml:"toolchain_version" toml:"toolchain_version"`
	LanguageLevel          LanguageLevel `json:"language_level" yaml:"language_level" toml:"language_level"`
	VersionCode            int           `json:"version_code" yaml:"version_code" toml:"version_code"`
	VersionName            string        `json:"version_name" yaml:"version_name" toml:"version_name"`
	MultiDex               bool          `json:"multidex" yaml:"multidex" toml:"multidex"`
	Plugins                []string      `json:"plugins" yaml:"plugins" toml:"plugins"`
	PackagingExclusions    []string      `json:"packaging_exclusions" yaml:"packaging_exclusions" toml:"packaging_exclusions"`
	FlutterSource          string        `json:"flutter_source" yaml:"flutter_source" toml:"flutter_source"`

	// Variants is sorted by name.
	Variants []Variant `json:"variants" yaml:"variants" toml:"variants"`
}

// Variant is one build variant with every parent setting already merged in.
type Variant struct {
	Name          string `json:"name" yaml:"name" toml:"name"`
	ApplicationID string `json:"application_id" yaml:"application_id" toml:"application_id"`
	VersionName   string `json:"version_name" yaml:"version_name" toml:"version_name"`

	// SigningReference names the signing table entry; empty means unsigned.
	SigningReference string `json:"signing_reference" yaml:"signing_reference" toml:"signing_reference"`

	Minify          bool `json:"minify" yaml:"minify" toml:"minify"`
	ShrinkResources bool `json:"shrink_resources" yaml:"shrink_resources" toml:"shrink_resources"`
	Debuggable      bool `json:"debuggable" yaml:"debuggable" toml:"debuggable"`

	// PackagingExclusions is the sorted union of descriptor and variant entries.
	PackagingExclusions []string `json:"packaging_exclusions" yaml:"packaging_exclusions" toml:"packaging_exclusions"`
}

// Variant returns a copy of the named variant.
func (d BuildDescriptor) Variant(name string) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v.clone(), true
		}
	}
	return Variant{}, false
}

// VariantNames returns the variant names in sorted order.
func (d BuildDescriptor) VariantNames() []string {
	names := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		names[i] = v.Name
	}
	return names
}

// Clone returns a deep copy.
func (d BuildDescriptor) Clone() BuildDescriptor {
	c := d
	c.Plugins = slices.Clone(d.Plugins)
	c.PackagingExclusions = slices.Clone(d.PackagingExclusions)
	c.Variants = make([]Variant, len(d.Variants))
	for i, v := range d.Variants {
		c.Variants[i] = v.clone()
	}
	return c
}

// Fingerprint returns a stable SHA-256 over the canonical JSON encoding.
// Two resolutions of the same input always share a fingerprint.
func (d BuildDescriptor) Fingerprint() string {
	// Struct field order is fixed and every slice is normalized by Resolve,
	// so the encoding is canonical.
	data, err := json.Marshal(d)
	if err != nil {
		// Only plain strings, ints and bools are encoded.
		panic("resolve: fingerprint: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Signed reports whether the variant carries a signing reference.
func (v Variant) Signed() bool { return v.SigningReference != "" }

// Excludes reports whether a packaged resource path is dropped by this
// variant's exclusion globs.
func (v Variant) Excludes(resource string) bool {
	for _, p := range v.PackagingExclusions {
		if MatchGlob(p, resource) {
			return true
		}
	}
	return false
}

func (v Variant) clone() Variant {
	v.PackagingExclusions = slices.Clone(v.PackagingExclusions)
	return v
}
