// Package check resolves batches of descriptor files concurrently.
//
// Every file is resolved twice and the two fingerprints compared, so a
// passing check also shows that resolution is deterministic for that input.
package check

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/gradle"
	"github.com/sofmeright/buildcfg/src/resolve"
)

// Options tunes a batch run.
type Options struct {
	// Concurrency bounds the number of files in flight. Zero means
	// twice the CPU count.
	Concurrency int
	Logger      *zap.Logger
}

// Result is the outcome for one input file.
type Result struct {
	File        string
	Descriptor  resolve.BuildDescriptor
	Fingerprint string
	Warnings    []string
	Err         error
}

// OK reports whether the file resolved cleanly.
func (r Result) OK() bool { return r.Err == nil }

// Run loads and resolves files, returning one Result per file in input
// order. The returned error is non-nil only when ctx ends the run early.
func Run(ctx context.Context, files []string, table resolve.SigningTable, opts Options) ([]Result, error) {
	n := opts.Concurrency
	if n <= 0 {
		n = runtime.NumCPU() * 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(files))
	sem := semaphore.NewWeighted(int64(n))
	var wg sync.WaitGroup

	for i, file := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return results, err
		}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer sem.Release(1)

			results[i] = checkFile(file, table)
			logger.Debug("checked descriptor",
				zap.String("file", file),
				zap.Bool("ok", results[i].OK()),
				zap.String("fingerprint", results[i].Fingerprint),
			)
		}(i, file)
	}

	wg.Wait()
	return results, nil
}

func checkFile(file string, table resolve.SigningTable) Result {
	res := Result{File: file}

	raw, warnings, err := Load(file)
	res.Warnings = warnings
	if err != nil {
		res.Err = err
		return res
	}

	first, err := resolve.Resolve(raw, table)
	if err != nil {
		res.Err = err
		return res
	}
	second, err := resolve.Resolve(raw, table)
	if err != nil {
		res.Err = fmt.Errorf("second resolution failed: %w", err)
		return res
	}

	res.Descriptor = first
	res.Fingerprint = first.Fingerprint()
	if fp := second.Fingerprint(); fp != res.Fingerprint {
		res.Err = fmt.Errorf("resolution is not deterministic: fingerprints %s and %s", res.Fingerprint, fp)
	}
	return res
}

// IsGradleScript reports whether path names a Gradle build script.
func IsGradleScript(path string) bool {
	return strings.HasSuffix(path, ".gradle.kts") || strings.HasSuffix(path, ".gradle")
}

// Load reads a descriptor or, for Gradle scripts, imports one. The
// returned warnings combine importer and validation warnings.
func Load(path string) (config.RawDescriptor, []string, error) {
	if !IsGradleScript(path) {
		raw, err := config.Load(path)
		if err != nil {
			return config.RawDescriptor{}, nil, err
		}
		return *raw, config.Validate(raw), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config.RawDescriptor{}, nil, fmt.Errorf("reading build script: %w", err)
	}
	defer f.Close()

	imported, err := gradle.Parse(f)
	if err != nil {
		return config.RawDescriptor{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	warnings := append(imported.Warnings, config.Validate(&imported.Descriptor)...)
	return imported.Descriptor, warnings, nil
}
