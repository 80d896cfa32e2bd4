package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Engine orchestrates lint modules across files.
type Engine struct {
	Modules []Module
	Logger  *zap.Logger
}

// NewEngine creates a lint engine with the selected modules. An empty
// moduleNames selects every default-enabled module.
func NewEngine(moduleNames []string, skipNames []string, logger *zap.Logger) (*Engine, error) {
	skipSet := make(map[string]bool, len(skipNames))
	for _, name := range skipNames {
		skipSet[name] = true
	}

	explicit := len(moduleNames) > 0
	if !explicit {
		moduleNames = Names()
	}

	var modules []Module
	for _, name := range moduleNames {
		if skipSet[name] {
			continue
		}
		m, err := New(name)
		if err != nil {
			return nil, err
		}
		if explicit || m.DefaultEnabled() {
			modules = append(modules, m)
		}
	}

	if len(modules) == 0 {
		return nil, fmt.Errorf("no lint modules selected")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{Modules: modules, Logger: logger}, nil
}

// ModuleStats holds per-module scan statistics.
type ModuleStats struct {
	Name     string
	Files    int
	Findings int
	Critical int
	Warnings int
}

func (s *ModuleStats) count(results []Finding) {
	s.Files++
	for _, r := range results {
		s.Findings++
		switch r.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warnings++
		}
	}
}

// Run executes every module against the files it applies to and returns
// findings sorted by file, line and module, plus per-module statistics.
// ModuleStats.Files counts only the files a module actually checked.
func (e *Engine) Run(ctx context.Context, files []FileInfo) ([]Finding, []ModuleStats, error) {
	var (
		mu       sync.Mutex
		findings []Finding
		wg       sync.WaitGroup
		errs     []error
	)

	sem := semaphore.NewWeighted(int64(runtime.NumCPU() * 2))

	// index matches e.Modules
	modStats := make([]ModuleStats, len(e.Modules))
	for i, m := range e.Modules {
		modStats[i].Name = m.Name()
	}

	for _, file := range files {
		for mi := range e.Modules {
			if !e.Modules[mi].Applies(file.Kind) {
				continue
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return nil, nil, err
			}
			m, err := New(e.Modules[mi].Name())
			if err != nil {
				m = e.Modules[mi]
			}
			wg.Add(1)
			go func(m Module, f FileInfo, idx int) {
				defer wg.Done()
				defer sem.Release(1)

				results, err := m.Check(ctx, f)
				e.Logger.Debug("lint check",
					zap.String("module", m.Name()),
					zap.String("file", f.Path),
					zap.Int("findings", len(results)),
				)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %s: %w", m.Name(), f.Path, err))
					return
				}
				modStats[idx].count(results)
				findings = append(findings, results...)
			}(m, file, mi)
		}
	}

	wg.Wait()

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Module < b.Module
	})

	if len(errs) > 0 {
		return findings, modStats, fmt.Errorf("%d module errors (first: %w)", len(errs), errs[0])
	}

	return findings, modStats, nil
}

// NewFileInfo builds a FileInfo for path, resolving its absolute location.
func NewFileInfo(path string, kind FileKind) (FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	return FileInfo{Path: path, AbsPath: abs, Kind: kind}, nil
}
