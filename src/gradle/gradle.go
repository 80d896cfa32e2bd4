// Package gradle imports the declarative subset of an Android app
// build.gradle.kts into a raw build descriptor. It understands plugin ids,
// the android { } block, build types, packaging excludes and the flutter { }
// block. Anything it cannot evaluate statically is left unset and reported
// as a warning.
package gradle

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sofmeright/buildcfg/src/config"
)

// Result is an imported descriptor plus the statements that were skipped.
type Result struct {
	Descriptor config.RawDescriptor
	Warnings   []string
}

// Parse reads a build.gradle.kts script.
func Parse(r io.Reader) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading build script: %w", err)
	}

	toks, err := lex(string(src))
	if err != nil {
		return nil, fmt.Errorf("gradle: %w", err)
	}

	p := &parser{toks: toks}
	nodes, err := p.parseBlock(false)
	if err != nil {
		return nil, fmt.Errorf("gradle: %w", err)
	}

	im := &importer{warnings: p.warnings}
	im.raw.Version = config.CurrentVersion
	for _, n := range nodes {
		switch n.name {
		case "plugins":
			im.plugins(n.children)
		case "android":
			im.android(n.children)
		case "flutter":
			im.flutter(n.children)
		default:
			im.skip(n, "")
		}
	}

	return &Result{Descriptor: im.raw, Warnings: im.warnings}, nil
}

type importer struct {
	raw      config.RawDescriptor
	warnings []string
	langSeen string // first language level seen, for consistency checks
}

func (im *importer) warnf(line int, format string, args ...any) {
	im.warnings = append(im.warnings, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

func (im *importer) skip(n node, scope string) {
	name := n.name
	if scope != "" {
		name = scope + "." + name
	}
	im.warnf(n.line, "skipping unsupported statement %s", name)
}

func (im *importer) plugins(nodes []node) {
	for _, n := range nodes {
		switch {
		case n.name == "id" && len(n.args) == 1 && n.args[0].kind == valString:
			im.raw.Plugins = append(im.raw.Plugins, n.args[0].text)
		case n.name == "kotlin" && len(n.args) == 1 && n.args[0].kind == valString:
			im.raw.Plugins = append(im.raw.Plugins, "org.jetbrains.kotlin."+n.args[0].text)
		default:
			im.skip(n, "plugins")
		}
	}
}

func (im *importer) android(nodes []node) {
	for _, n := range nodes {
		switch n.name {
		case "namespace":
			if s, ok := im.str(n); ok {
				im.raw.Namespace = s
			}
		case "compileSdk", "compileSdkVersion":
			if i, ok := im.num(n); ok {
				im.raw.CompilePlatformVersion = config.Int(i)
			}
		case "ndkVersion":
			if s, ok := im.str(n); ok {
				im.raw.ToolchainVersion = config.String(s)
			}
		case "compileOptions":
			for _, c := range n.children {
				switch c.name {
				case "sourceCompatibility", "targetCompatibility":
					im.language(c)
				default:
					im.skip(c, "android.compileOptions")
				}
			}
		case "kotlinOptions":
			for _, c := range n.children {
				if c.name == "jvmTarget" {
					im.language(c)
					continue
				}
				im.skip(c, "android.kotlinOptions")
			}
		case "defaultConfig":
			im.defaultConfig(n.children)
		case "buildTypes":
			im.buildTypes(n.children)
		case "packaging", "packagingOptions":
			im.packaging(n.children)
		default:
			im.skip(n, "android")
		}
	}
}

func (im *importer) defaultConfig(nodes []node) {
	for _, n := range nodes {
		switch n.name {
		case "applicationId":
			if s, ok := im.str(n); ok {
				im.raw.ApplicationID = config.String(s)
			}
		case "minSdk", "minSdkVersion":
			if i, ok := im.num(n); ok {
				im.raw.MinPlatformVersion = config.Int(i)
			}
		case "targetSdk", "targetSdkVersion":
			if i, ok := im.num(n); ok {
				im.raw.TargetPlatformVersion = config.Int(i)
			}
		case "versionCode":
			if i, ok := im.num(n); ok {
				im.raw.VersionCode = config.Int(i)
			}
		case "versionName":
			if s, ok := im.str(n); ok {
				im.raw.VersionName = config.String(s)
			}
		case "multiDexEnabled":
			if b, ok := im.boolean(n); ok {
				im.raw.MultiDex = b
			}
		default:
			im.skip(n, "android.defaultConfig")
		}
	}
}

func (im *importer) buildTypes(nodes []node) {
	for _, n := range nodes {
		name := n.name
		// getByName("release") { } and create("staging") { } forms.
		if (name == "getByName" || name == "create" || name == "named") && len(n.args) == 1 && n.args[0].kind == valString {
			name = n.args[0].text
		}
		if !n.block {
			im.skip(n, "android.buildTypes")
			continue
		}

		if im.raw.Variants == nil {
			im.raw.Variants = make(map[string]config.RawVariant)
		}
		v := im.raw.Variants[name]
		for _, c := range n.children {
			switch c.name {
			case "isMinifyEnabled", "minifyEnabled":
				if b, ok := im.boolean(c); ok {
					v.Minify = b
				}
			case "isShrinkResources", "shrinkResources":
				if b, ok := im.boolean(c); ok {
					v.ShrinkResources = b
				}
			case "isDebuggable", "debuggable":
				if b, ok := im.boolean(c); ok {
					v.Debuggable = config.Bool(b)
				}
			case "applicationIdSuffix":
				if s, ok := im.str(c); ok {
					v.ApplicationIDSuffix = s
				}
			case "versionNameSuffix":
				if s, ok := im.str(c); ok {
					v.VersionNameSuffix = s
				}
			case "signingConfig":
				if ref, ok := signingRef(c.val); ok {
					v.Signing = config.String(ref)
				} else {
					im.warnf(c.line, "buildTypes.%s.signingConfig: cannot evaluate statically", name)
				}
			default:
				im.skip(c, "android.buildTypes."+name)
			}
		}
		im.raw.Variants[name] = v
	}
}

func (im *importer) packaging(nodes []node) {
	for _, n := range nodes {
		if n.name != "resources" || !n.block {
			// Flat form: packaging { resources.excludes += "..." }
			if n.name == "resources.excludes" || n.name == "excludes" {
				im.excludes(n)
				continue
			}
			im.skip(n, "android.packaging")
			continue
		}
		for _, c := range n.children {
			if c.name == "excludes" {
				im.excludes(c)
				continue
			}
			im.skip(c, "android.packaging.resources")
		}
	}
}

func (im *importer) excludes(n node) {
	var vals []value
	switch {
	case n.val.kind == valString:
		vals = []value{n.val}
	case n.val.kind == valCall && (n.val.text == "setOf" || n.val.text == "listOf"):
		vals = n.val.args
	default:
		im.warnf(n.line, "excludes: cannot evaluate statically")
		return
	}

	if n.op == "=" {
		im.raw.PackagingExclusions = nil
	}
	for _, v := range vals {
		if v.kind != valString {
			im.warnf(v.line, "excludes: skipping non-literal entry")
			continue
		}
		im.raw.PackagingExclusions = append(im.raw.PackagingExclusions, v.text)
	}
}

func (im *importer) flutter(nodes []node) {
	for _, n := range nodes {
		if n.name == "source" {
			if s, ok := im.str(n); ok {
				im.raw.FlutterSource = s
			}
			continue
		}
		im.skip(n, "flutter")
	}
}

// language records a Java/Kotlin level. sourceCompatibility,
// targetCompatibility and jvmTarget must agree.
func (im *importer) language(n node) {
	var level string
	switch {
	case n.val.kind == valRef && strings.HasPrefix(n.val.text, "JavaVersion."):
		level = strings.TrimSuffix(n.val.text, ".toString")
	case n.val.kind == valCall && strings.HasPrefix(n.val.text, "JavaVersion.") && strings.HasSuffix(n.val.text, ".toString"):
		level = strings.TrimSuffix(n.val.text, ".toString")
	case n.val.kind == valString:
		level = n.val.text
	default:
		im.warnf(n.line, "%s: cannot evaluate statically", n.name)
		return
	}

	if im.langSeen == "" {
		im.langSeen = level
		im.raw.LanguageLevel = level
		return
	}
	if normalizeLevel(level) != normalizeLevel(im.langSeen) {
		im.warnf(n.line, "%s %q disagrees with %q", n.name, level, im.langSeen)
	}
}

func normalizeLevel(s string) string {
	s = strings.TrimPrefix(s, "JavaVersion.")
	s = strings.TrimPrefix(s, "VERSION_")
	s = strings.ReplaceAll(s, "_", ".")
	if s == "8" {
		return "1.8"
	}
	return s
}

// signingRef extracts the name from signingConfigs.getByName("x") or the
// property form signingConfigs.x.
func signingRef(v value) (string, bool) {
	switch v.kind {
	case valCall:
		if (v.text == "signingConfigs.getByName" || v.text == "signingConfigs.named") && len(v.args) == 1 && v.args[0].kind == valString {
			return v.args[0].text, true
		}
	case valRef:
		if name, ok := strings.CutPrefix(v.text, "signingConfigs."); ok && name != "" && !strings.Contains(name, ".") {
			return name, true
		}
	}
	return "", false
}

func (im *importer) str(n node) (string, bool) {
	if n.op != "=" || n.val.kind != valString {
		im.warnf(n.line, "%s: cannot evaluate statically", n.name)
		return "", false
	}
	return n.val.text, true
}

func (im *importer) num(n node) (int, bool) {
	if n.op != "=" || n.val.kind != valNumber {
		im.warnf(n.line, "%s: cannot evaluate statically", n.name)
		return 0, false
	}
	i, err := strconv.Atoi(n.val.text)
	if err != nil {
		im.warnf(n.line, "%s: %v", n.name, err)
		return 0, false
	}
	return i, true
}

func (im *importer) boolean(n node) (bool, bool) {
	if n.op != "=" || n.val.kind != valBool {
		im.warnf(n.line, "%s: cannot evaluate statically", n.name)
		return false, false
	}
	return n.val.text == "true", true
}
