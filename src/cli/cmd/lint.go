package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sofmeright/buildcfg/src/lint"
	_ "github.com/sofmeright/buildcfg/src/lint/modules"
	"github.com/sofmeright/buildcfg/src/output"
)

var (
	lintModules []string
	lintSkip    []string
)

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Run checks over descriptors and the signing table",
	Long: `Run lint modules over descriptor files and the signing table.

Without arguments the descriptor and, when present, the signing table are
linted. Modules run in parallel. Critical findings fail the command.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringSliceVar(&lintModules, "module", nil, "run only these modules (comma-separated)")
	lintCmd.Flags().StringSliceVar(&lintSkip, "skip", nil, "skip these modules (comma-separated)")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	engine, err := lint.NewEngine(lintModules, lintSkip, logger)
	if err != nil {
		return err
	}

	files, err := lintFiles(args)
	if err != nil {
		return err
	}
	logger.Debug("lint", zap.Int("files", len(files)), zap.Int("modules", len(engine.Modules)))

	w := cmd.OutOrStdout()
	color := output.UseColor()

	start := time.Now()
	findings, stats, runErr := engine.Run(cmd.Context(), files)
	elapsed := time.Since(start)

	critical := 0
	for _, f := range findings {
		if f.Severity == lint.SeverityCritical {
			critical++
		}
	}

	output.SectionStart(w, "buildcfg_lint", "Lint")
	sec := output.NewSection(w, "Lint", elapsed, color)
	output.LintTable(sec, stats)
	sec.Close()

	if len(findings) > 0 {
		fSec := output.NewSection(w, "Findings", 0, color)
		output.SectionFindings(fSec, findings, color)
		fSec.Separator()
		fSec.Row("%s", output.FindingsSummaryLine(findings, len(files), color))
		fSec.Close()
	}
	output.SectionEnd(w, "buildcfg_lint")

	if runErr != nil {
		return fmt.Errorf("lint: %w", runErr)
	}
	if critical > 0 {
		return fmt.Errorf("lint failed: %d critical findings", critical)
	}
	return nil
}

// lintFiles classifies the given paths. A path equal to the signing table
// is linted as a signing file; the rest are descriptors.
func lintFiles(args []string) ([]lint.FileInfo, error) {
	signingAbs, _ := filepath.Abs(signingPath())

	paths := args
	if len(paths) == 0 {
		paths = []string{descriptorPath(nil)}
		if _, err := os.Stat(signingPath()); err == nil {
			paths = append(paths, signingPath())
		}
	}

	files := make([]lint.FileInfo, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, err
		}
		fi, err := lint.NewFileInfo(p, lint.KindDescriptor)
		if err != nil {
			return nil, err
		}
		if fi.AbsPath == signingAbs {
			fi.Kind = lint.KindSigning
		}
		files = append(files, fi)
	}
	return files, nil
}
