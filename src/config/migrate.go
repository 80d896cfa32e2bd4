package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MigrateToLatest takes raw YAML data and migrates it to the current schema version.
// Returns the migrated YAML bytes ready for writing.
//
// Migration chain:
//
//	version 0 (Gradle-style camelCase keys) → 1
//	version 1 → current (no-op)
func MigrateToLatest(data []byte) ([]byte, error) {
	ver, err := peekVersion(data)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	switch ver {
	case CurrentVersion:
		return data, nil
	case 0:
		raw, err := migrateLegacy(data)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return marshalYAML(raw)
	default:
		return nil, fmt.Errorf("migrate: unknown descriptor version %d (latest supported: %d)", ver, CurrentVersion)
	}
}

// peekVersion extracts the version field from raw YAML without full parsing.
// Returns 0 if no version field is present.
func peekVersion(data []byte) (int, error) {
	var peek struct {
		Version int `yaml:"version"`
	}

	// Lenient: only the version field matters here.
	if err := yaml.Unmarshal(data, &peek); err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}

	return peek.Version, nil
}

// legacyDescriptor is the unversioned layout that copied Gradle DSL names.
type legacyDescriptor struct {
	Version             int                        `yaml:"version"`
	Namespace           string                     `yaml:"namespace"`
	ApplicationID       *string                    `yaml:"applicationId"`
	MinSdk              *int                       `yaml:"minSdk"`
	TargetSdk           *int                       `yaml:"targetSdk"`
	CompileSdk          *int                       `yaml:"compileSdk"`
	NdkVersion          *string                    `yaml:"ndkVersion"`
	SourceCompatibility string                     `yaml:"sourceCompatibility"`
	JvmTarget           string                     `yaml:"jvmTarget"`
	VersionCode         *int                       `yaml:"versionCode"`
	VersionName         *string                    `yaml:"versionName"`
	MultiDexEnabled     bool                       `yaml:"multiDexEnabled"`
	Plugins             []string                   `yaml:"plugins"`
	Packaging           legacyPackaging            `yaml:"packaging"`
	Flutter             legacyFlutter              `yaml:"flutter"`
	BuildTypes          map[string]legacyBuildType `yaml:"buildTypes"`
}

type legacyPackaging struct {
	Resources struct {
		Excludes []string `yaml:"excludes"`
	} `yaml:"resources"`
}

type legacyFlutter struct {
	Source string `yaml:"source"`
}

type legacyBuildType struct {
	SigningConfig       *string `yaml:"signingConfig"`
	IsMinifyEnabled     bool    `yaml:"isMinifyEnabled"`
	IsShrinkResources   bool    `yaml:"isShrinkResources"`
	IsDebuggable        *bool   `yaml:"isDebuggable"`
	ApplicationIDSuffix string  `yaml:"applicationIdSuffix"`
	VersionNameSuffix   string  `yaml:"versionNameSuffix"`
}

func migrateLegacy(data []byte) (*RawDescriptor, error) {
	var l legacyDescriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parse legacy descriptor: %w", err)
	}

	level := l.SourceCompatibility
	if l.JvmTarget != "" {
		if level != "" && !sameLevel(level, l.JvmTarget) {
			return nil, fmt.Errorf("sourceCompatibility %q and jvmTarget %q disagree", level, l.JvmTarget)
		}
		if level == "" {
			level = l.JvmTarget
		}
	}

	raw := &RawDescriptor{
		Version:                CurrentVersion,
		Namespace:              l.Namespace,
		ApplicationID:          l.ApplicationID,
		MinPlatformVersion:     l.MinSdk,
		TargetPlatformVersion:  l.TargetSdk,
		CompilePlatformVersion: l.CompileSdk,
		ToolchainVersion:       l.NdkVersion,
		LanguageLevel:          level,
		VersionCode:            l.VersionCode,
		VersionName:            l.VersionName,
		MultiDex:               l.MultiDexEnabled,
		Plugins:                l.Plugins,
		PackagingExclusions:    l.Packaging.Resources.Excludes,
		FlutterSource:          l.Flutter.Source,
	}

	if len(l.BuildTypes) > 0 {
		raw.Variants = make(map[string]RawVariant, len(l.BuildTypes))
		for name, bt := range l.BuildTypes {
			raw.Variants[name] = RawVariant{
				Signing:             bt.SigningConfig,
				Minify:              bt.IsMinifyEnabled,
				ShrinkResources:     bt.IsShrinkResources,
				Debuggable:          bt.IsDebuggable,
				ApplicationIDSuffix: bt.ApplicationIDSuffix,
				VersionNameSuffix:   bt.VersionNameSuffix,
			}
		}
	}

	return raw, nil
}

// sameLevel compares two language level spellings loosely ("11" vs "VERSION_11").
func sameLevel(a, b string) bool {
	norm := func(s string) string {
		s = strings.TrimPrefix(s, "JavaVersion.")
		s = strings.TrimPrefix(s, "VERSION_")
		return strings.ReplaceAll(s, "_", ".")
	}
	return norm(a) == norm(b)
}

// MarshalYAML encodes a descriptor as version-1 YAML with two-space indent.
func MarshalYAML(raw *RawDescriptor) ([]byte, error) {
	return marshalYAML(raw)
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}
