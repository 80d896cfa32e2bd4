package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/buildcfg/src/check"
	"github.com/sofmeright/buildcfg/src/output"
)

var (
	checkJobs  int
	checkJUnit string
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Resolve many descriptors and report per file",
	Long: `Resolve each file concurrently and report the outcome per file.

Files may be descriptors (.yml, .yaml, .toml, .hcl) or Gradle build
scripts (.gradle.kts), which are imported first. Each file is resolved
twice and the fingerprints compared.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "files checked in parallel (default: 2x CPUs)")
	checkCmd.Flags().StringVar(&checkJUnit, "junit", "", "write a JUnit report into this directory")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		files = []string{descriptorPath(nil)}
	}

	table, err := loadSigning()
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := check.Run(cmd.Context(), files, table, check.Options{Concurrency: checkJobs, Logger: logger})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if checkJUnit != "" {
		if err := output.WriteJUnit(checkJUnit, "check.xml", output.CheckJUnit(results, elapsed)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write junit report: %v\n", err)
		}
	}

	w := cmd.OutOrStdout()
	color := output.UseColor()

	failed := 0
	output.SectionStart(w, "buildcfg_check", "Check")
	for _, r := range results {
		sec := output.NewSection(w, r.File, 0, color)
		if r.OK() {
			output.SectionDescriptor(sec, r.Descriptor, color)
			sec.Row("%-12s %s", "fingerprint", output.Dimmed(r.Fingerprint[:12], color))
		} else {
			failed++
			output.SectionError(sec, r.Err, color)
		}
		if len(r.Warnings) > 0 {
			sec.Separator()
			output.SectionWarnings(sec, r.Warnings, color)
		}
		sec.Close()
	}

	sum := output.NewSection(w, "Summary", elapsed, color)
	for _, r := range results {
		status, detail := "success", "resolved"
		switch {
		case !r.OK():
			status, detail = "failed", "does not resolve"
		case len(r.Warnings) > 0:
			status, detail = "warning", fmt.Sprintf("%d warnings", len(r.Warnings))
		}
		output.SummaryRow(sum, r.File, status, detail)
	}
	sum.Close()
	output.SectionEnd(w, "buildcfg_check")

	if failed > 0 {
		return fmt.Errorf("check failed: %d of %d files do not resolve", failed, len(results))
	}
	return nil
}
