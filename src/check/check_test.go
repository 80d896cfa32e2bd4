package check

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/buildcfg/src/resolve"
	"github.com/sofmeright/buildcfg/src/signing"
)

func TestRunKeepsInputOrder(t *testing.T) {
	files := []string{
		"testdata/release.yml",
		"testdata/release-shrink.yml",
		"testdata/shrink-without-minify.yml",
		"testdata/app.gradle.kts",
		"testdata/missing.yml",
	}

	results, err := Run(context.Background(), files, signing.Default(), Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, len(files))

	for i, r := range results {
		assert.Equal(t, files[i], r.File)
	}

	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.False(t, results[2].OK())
	assert.True(t, results[3].OK())
	assert.False(t, results[4].OK())

	// The two release samples differ only in shrinking.
	assert.NotEqual(t, results[0].Fingerprint, results[1].Fingerprint)
	rel, _ := results[1].Descriptor.Variant(resolve.VariantRelease)
	assert.True(t, rel.Minify)
	assert.True(t, rel.ShrinkResources)

	var cfgErrs resolve.Errors
	require.True(t, errors.As(results[2].Err, &cfgErrs))
	require.Len(t, cfgErrs, 1)
	assert.Equal(t, "variants.release.shrink_resources", cfgErrs[0].Location())
	assert.ErrorIs(t, results[2].Err, resolve.ErrInvalidValue)

	assert.Equal(t, "1.2.0", results[3].Descriptor.VersionName)
	assert.Equal(t, 3, results[3].Descriptor.VersionCode)
}

func TestRunWarnings(t *testing.T) {
	results, err := Run(context.Background(), []string{"testdata/release.yml"}, signing.Default(), Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	// release is signed with the debug key
	assert.Len(t, results[0].Warnings, 1)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{"testdata/release.yml"}, signing.Default(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUnknownSigning(t *testing.T) {
	results, err := Run(context.Background(), []string{"testdata/release.yml"}, signing.Table{}, Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, resolve.ErrUnknownSigningConfig)
}
