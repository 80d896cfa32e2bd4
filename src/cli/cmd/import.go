package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/gradle"
)

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <build.gradle.kts>",
	Short: "Convert a Gradle build script into a descriptor",
	Long: `Convert the declarative parts of a Gradle Kotlin build script into a
version 1 YAML descriptor.

Values computed at build time (flutter.minSdkVersion, string templates)
cannot be imported; each is reported as a warning and left unset.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "write the descriptor to this path instead of stdout")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("reading build script: %w", err)
	}
	defer f.Close()

	res, err := gradle.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	for _, w := range res.Warnings {
		logger.Warn(w, zap.String("file", args[0]))
	}

	data, err := config.MarshalYAML(&res.Descriptor)
	if err != nil {
		return err
	}

	if importOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(importOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", importOutput, err)
	}
	logger.Info("imported", zap.String("from", args[0]), zap.String("to", importOutput), zap.Int("warnings", len(res.Warnings)))
	return nil
}
