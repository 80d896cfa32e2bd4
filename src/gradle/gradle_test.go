package gradle

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/resolve"
	"github.com/sofmeright/buildcfg/src/signing"
)

func TestParseFlutterShell(t *testing.T) {
	f, err := os.Open("testdata/build.gradle.kts")
	require.NoError(t, err)
	defer f.Close()

	res, err := Parse(f)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	raw := res.Descriptor
	assert.Equal(t, config.CurrentVersion, raw.Version)
	assert.Equal(t, []string{
		"com.android.application",
		"kotlin-android",
		"dev.flutter.flutter-gradle-plugin",
	}, raw.Plugins)
	assert.Equal(t, "com.example.hello_flutter", raw.Namespace)
	require.NotNil(t, raw.ApplicationID)
	assert.Equal(t, "com.example.hello_flutter", *raw.ApplicationID)
	require.NotNil(t, raw.MinPlatformVersion)
	assert.Equal(t, 21, *raw.MinPlatformVersion)
	require.NotNil(t, raw.TargetPlatformVersion)
	assert.Equal(t, 34, *raw.TargetPlatformVersion)
	require.NotNil(t, raw.CompilePlatformVersion)
	assert.Equal(t, 34, *raw.CompilePlatformVersion)
	require.NotNil(t, raw.ToolchainVersion)
	assert.Equal(t, "27.0.12077973", *raw.ToolchainVersion)
	assert.Equal(t, "JavaVersion.VERSION_11", raw.LanguageLevel)
	assert.True(t, raw.MultiDex)
	assert.Equal(t, "../..", raw.FlutterSource)
	assert.Len(t, raw.PackagingExclusions, 5)
	assert.Contains(t, raw.PackagingExclusions, "META-INF/LICENSE.txt")

	release, ok := raw.Variants["release"]
	require.True(t, ok)
	require.NotNil(t, release.Signing)
	assert.Equal(t, "debug", *release.Signing)
	assert.False(t, release.Minify)
}

func TestImportedScriptResolves(t *testing.T) {
	f, err := os.Open("testdata/build.gradle.kts")
	require.NoError(t, err)
	defer f.Close()

	res, err := Parse(f)
	require.NoError(t, err)

	d, err := resolve.Resolve(res.Descriptor, signing.Default())
	require.NoError(t, err)
	assert.Equal(t, resolve.Java11, d.LanguageLevel)

	rel, ok := d.Variant(resolve.VariantRelease)
	require.True(t, ok)
	assert.Equal(t, "debug", rel.SigningReference)
	assert.True(t, rel.Excludes("META-INF/NOTICE"))
	assert.False(t, rel.Excludes("assets/flutter_assets/AssetManifest.json"))
}

func TestParseUnresolvableValues(t *testing.T) {
	src := `
android {
    compileSdk = flutter.compileSdkVersion
    defaultConfig {
        applicationId = "com.example.app"
        minSdk = flutter.minSdkVersion
        targetSdk = 34
        versionName = "$flutterVersionName"
    }
    buildTypes {
        getByName("release") {
            isMinifyEnabled = true
            isShrinkResources = true
            signingConfig = signingConfigs.upload
        }
    }
}
tasks.register<Delete>("clean") {
    delete(rootProject.buildDir)
}
`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	raw := res.Descriptor
	assert.Nil(t, raw.CompilePlatformVersion)
	assert.Nil(t, raw.MinPlatformVersion)
	assert.Nil(t, raw.VersionName)
	require.NotNil(t, raw.TargetPlatformVersion)
	assert.Equal(t, 34, *raw.TargetPlatformVersion)

	rel := raw.Variants["release"]
	assert.True(t, rel.Minify)
	assert.True(t, rel.ShrinkResources)
	require.NotNil(t, rel.Signing)
	assert.Equal(t, "upload", *rel.Signing)

	// compileSdk, minSdk, versionName and the tasks block.
	assert.Len(t, res.Warnings, 4)
}

func TestParseExcludesForms(t *testing.T) {
	src := `
android {
    packaging {
        resources {
            excludes += setOf("META-INF/AL2.0", "META-INF/LGPL2.1")
            excludes += "/META-INF/{AL2.0,LGPL2.1}"
        }
    }
}
`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"META-INF/AL2.0", "META-INF/LGPL2.1", "/META-INF/{AL2.0,LGPL2.1}"}, res.Descriptor.PackagingExclusions)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed block", "android {\n namespace = \"x\"\n"},
		{"stray brace", "}\n"},
		{"unterminated string", "android { namespace = \"x }\n"},
		{"unterminated comment", "/* android {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
		})
	}
}

func TestParseCompoundExpressionsLeaveFieldsUnset(t *testing.T) {
	src := `
android {
    defaultConfig {
        applicationId = "com.example" + ".app"
        minSdk = 21 + 0
        versionName = "1.0"
    }
    buildTypes {
        release {
            signingConfig = signingConfigs.getByName("debug").also { }
        }
    }
}
`
	res, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	raw := res.Descriptor
	assert.Nil(t, raw.ApplicationID)
	assert.Nil(t, raw.MinPlatformVersion)
	require.NotNil(t, raw.VersionName)
	assert.Equal(t, "1.0", *raw.VersionName)
	assert.Nil(t, raw.Variants["release"].Signing)
	assert.Len(t, res.Warnings, 3)

	_, err = resolve.Resolve(raw, signing.Default())
	assert.ErrorIs(t, err, resolve.ErrMissingField)
}
