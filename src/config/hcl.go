package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclDescriptor mirrors RawDescriptor with HCL tags. Variants are labelled
// blocks: variant "release" { ... }.
type hclDescriptor struct {
	Version                int        `hcl:"version,optional"`
	Namespace              *string    `hcl:"namespace,optional"`
	ApplicationID          *string    `hcl:"application_id,optional"`
	MinPlatformVersion     *int       `hcl:"min_platform_version,optional"`
	TargetPlatformVersion  *int       `hcl:"target_platform_version,optional"`
	CompilePlatformVersion *int       `hcl:"compile_platform_version,optional"`
	ToolchainVersion       *string    `hcl:"toolchain_version,optional"`
	ToolchainConstraint    *string    `hcl:"toolchain_constraint,optional"`
	LanguageLevel          *string    `hcl:"language_level,optional"`
	VersionCode            *int       `hcl:"version_code,optional"`
	VersionName            *string    `hcl:"version_name,optional"`
	MultiDex               *bool      `hcl:"multidex,optional"`
	Plugins                []string   `hcl:"plugins,optional"`
	PackagingExclusions    []string   `hcl:"packaging_exclusions,optional"`
	FlutterSource          *string    `hcl:"flutter_source,optional"`
	Variants               []hclBlock `hcl:"variant,block"`
}

type hclBlock struct {
	Name                string   `hcl:"name,label"`
	Signing             *string  `hcl:"signing,optional"`
	Minify              *bool    `hcl:"minify,optional"`
	ShrinkResources     *bool    `hcl:"shrink_resources,optional"`
	Debuggable          *bool    `hcl:"debuggable,optional"`
	ApplicationIDSuffix *string  `hcl:"application_id_suffix,optional"`
	VersionNameSuffix   *string  `hcl:"version_name_suffix,optional"`
	PackagingExclusions []string `hcl:"packaging_exclusions,optional"`
}

// ParseHCL decodes an HCL descriptor. The environment is exposed to
// expressions as the object variable "env", e.g. version_code = env.BUILD_NUMBER.
// Numeric conversion of string values follows cty rules.
func ParseHCL(data []byte, filename string, env map[string]string) (*RawDescriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse HCL: %s", diags.Error())
	}

	var h hclDescriptor
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &h)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode HCL: %s", diags.Error())
	}

	raw := &RawDescriptor{
		Version:                h.Version,
		Namespace:              deref(h.Namespace),
		ApplicationID:          h.ApplicationID,
		MinPlatformVersion:     h.MinPlatformVersion,
		TargetPlatformVersion:  h.TargetPlatformVersion,
		CompilePlatformVersion: h.CompilePlatformVersion,
		ToolchainVersion:       h.ToolchainVersion,
		ToolchainConstraint:    deref(h.ToolchainConstraint),
		LanguageLevel:          deref(h.LanguageLevel),
		VersionCode:            h.VersionCode,
		VersionName:            h.VersionName,
		MultiDex:               deref(h.MultiDex),
		Plugins:                h.Plugins,
		PackagingExclusions:    h.PackagingExclusions,
		FlutterSource:          deref(h.FlutterSource),
	}

	if len(h.Variants) > 0 {
		raw.Variants = make(map[string]RawVariant, len(h.Variants))
	}
	for _, b := range h.Variants {
		if _, dup := raw.Variants[b.Name]; dup {
			return nil, fmt.Errorf("decode HCL: duplicate variant block %q", b.Name)
		}
		raw.Variants[b.Name] = RawVariant{
			Signing:             b.Signing,
			Minify:              deref(b.Minify),
			ShrinkResources:     deref(b.ShrinkResources),
			Debuggable:          b.Debuggable,
			ApplicationIDSuffix: deref(b.ApplicationIDSuffix),
			VersionNameSuffix:   deref(b.VersionNameSuffix),
			PackagingExclusions: b.PackagingExclusions,
		}
	}

	return raw, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			vals[k] = cty.StringVal(v)
		}
		envVal = cty.ObjectVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
