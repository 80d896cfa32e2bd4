package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sofmeright/buildcfg/src/config"
)

var (
	migrateInPlace bool
	migrateOutput  string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Migrate a descriptor to the latest schema version",
	Long: `Migrate a YAML descriptor to the latest schema version.

Unversioned descriptors use the Gradle property names (applicationId,
minSdk, buildTypes). They are rewritten to the version 1 layout.

By default the migrated descriptor is printed to stdout. Use --in-place to
overwrite the file, or --output to write to a different path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVarP(&migrateInPlace, "in-place", "i", false, "overwrite the descriptor in place")
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "write the migrated descriptor to this path")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrateInPlace && migrateOutput != "" {
		return fmt.Errorf("--in-place and --output are mutually exclusive")
	}
	inputPath := descriptorPath(args)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	migrated, err := config.MigrateToLatest(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	dest := migrateOutput
	if migrateInPlace {
		dest = inputPath
	}
	if dest == "" {
		_, err := cmd.OutOrStdout().Write(migrated)
		return err
	}
	if err := os.WriteFile(dest, migrated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	logger.Info("migrated", zap.String("from", inputPath), zap.String("to", dest))
	return nil
}
