package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/buildcfg/src/check"
	"github.com/sofmeright/buildcfg/src/gitver"
	"github.com/sofmeright/buildcfg/src/output"
	"github.com/sofmeright/buildcfg/src/resolve"
)

var (
	resolveGit           bool
	resolveFormat        string
	resolveVerifySigning bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a descriptor into a build configuration",
	Long: `Resolve a descriptor and print the resulting build configuration.

With --git, version_name and version_code default to the nearest semver
tag and the commit count when the descriptor leaves them unset.

Resolution is all-or-nothing: on failure every error is reported and
nothing is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveGit, "git", false, "derive unset versions from git tags")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "yaml", "output format: yaml, json or toml")
	resolveCmd.Flags().BoolVar(&resolveVerifySigning, "verify-signing", false, "fail when a referenced signing password is not available")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := descriptorPath(args)

	d, err := resolveFile(path, resolveGit)
	if err != nil {
		color := output.UseColor()
		sec := output.NewSection(os.Stderr, "Resolve "+path, 0, color)
		output.SectionError(sec, err, color)
		sec.Close()
		return fmt.Errorf("%s does not resolve", path)
	}

	if resolveVerifySigning {
		if err := verifySigning(d); err != nil {
			return err
		}
	}

	return encode(cmd.OutOrStdout(), d, resolveFormat)
}

// resolveFile loads, optionally git-versions, and resolves one descriptor.
// Validation warnings go to the log.
func resolveFile(path string, withGit bool) (resolve.BuildDescriptor, error) {
	raw, warnings, err := check.Load(path)
	if err != nil {
		return resolve.BuildDescriptor{}, err
	}
	for _, w := range warnings {
		logger.Warn(w, zap.String("file", path))
	}

	if withGit {
		info, err := gitver.Detect(filepath.Dir(path))
		if err != nil {
			return resolve.BuildDescriptor{}, fmt.Errorf("detecting git version: %w", err)
		}
		logger.Debug("git version",
			zap.String("version", info.Version),
			zap.Int("commits", info.CommitCount),
			zap.String("tag", info.Tag),
		)
		raw = info.Apply(raw)
	}

	table, err := loadSigning()
	if err != nil {
		return resolve.BuildDescriptor{}, err
	}
	return resolve.Resolve(raw, table)
}

func verifySigning(d resolve.BuildDescriptor) error {
	table, err := loadSigning()
	if err != nil {
		return err
	}
	for _, v := range d.Variants {
		if !v.Signed() {
			continue
		}
		if _, err := table[v.SigningReference].ResolvePasswords(os.Getenv); err != nil {
			return fmt.Errorf("variant %s: signing %q: %w", v.Name, v.SigningReference, err)
		}
	}
	return nil
}

func encode(w io.Writer, d resolve.BuildDescriptor, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "toml":
		return toml.NewEncoder(w).Encode(d)
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or toml)", format)
	}
}
