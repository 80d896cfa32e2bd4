package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/resolve"
)

func TestSigningPathPrecedence(t *testing.T) {
	defer func() { signingFile = "" }()

	t.Setenv(SigningEnv, "")
	assert.Equal(t, DefaultSigningFile, signingPath())

	t.Setenv(SigningEnv, "from-env.yml")
	assert.Equal(t, "from-env.yml", signingPath())

	signingFile = "from-flag.yml"
	assert.Equal(t, "from-flag.yml", signingPath())
}

func TestDescriptorPath(t *testing.T) {
	defer func() { cfgFile = "" }()

	assert.Equal(t, config.DefaultDescriptorFile, descriptorPath(nil))
	cfgFile = "custom.toml"
	assert.Equal(t, "custom.toml", descriptorPath(nil))
	assert.Equal(t, "arg.hcl", descriptorPath([]string{"arg.hcl"}))
}

func resolvedFixture(t *testing.T) resolve.BuildDescriptor {
	t.Helper()
	t.Setenv(SigningEnv, filepath.Join(t.TempDir(), "none.yml"))
	d, err := resolveFile("../../config/testdata/flutter.yml", false)
	require.NoError(t, err)
	return d
}

func TestEncodeFormats(t *testing.T) {
	d := resolvedFixture(t)

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, d, "json"))
	var fromJSON resolve.BuildDescriptor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, d.Fingerprint(), fromJSON.Fingerprint())

	buf.Reset()
	require.NoError(t, encode(&buf, d, "yaml"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "com.example.hello_flutter", fromYAML["application_id"])

	buf.Reset()
	require.NoError(t, encode(&buf, d, "toml"))
	var fromTOML map[string]any
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &fromTOML))
	assert.Equal(t, "com.example.hello_flutter", fromTOML["application_id"])

	assert.Error(t, encode(&buf, d, "xml"))
}

func TestVerifySigning(t *testing.T) {
	d := resolvedFixture(t)
	// The debug entry carries literal passwords.
	assert.NoError(t, verifySigning(d))

	table := filepath.Join(t.TempDir(), "signing.yml")
	require.NoError(t, os.WriteFile(table, []byte(`signing:
  upload:
    store_file: upload.jks
    store_password: env:BUILDCFG_TEST_STORE
    key_alias: upload
    key_password: env:BUILDCFG_TEST_KEY
`), 0o644))
	t.Setenv(SigningEnv, table)
	t.Setenv("BUILDCFG_TEST_STORE", "s")
	t.Setenv("BUILDCFG_TEST_KEY", "")

	for i := range d.Variants {
		if d.Variants[i].Name == resolve.VariantRelease {
			d.Variants[i].SigningReference = "upload"
		}
	}
	assert.ErrorContains(t, verifySigning(d), "key_password")
}
