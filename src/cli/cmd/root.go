package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sofmeright/buildcfg/src/config"
	"github.com/sofmeright/buildcfg/src/logging"
	"github.com/sofmeright/buildcfg/src/signing"
)

// SigningEnv overrides the default signing table path.
const SigningEnv = "BUILDCFG_SIGNING"

// DefaultSigningFile is used when neither --signing nor SigningEnv is set.
const DefaultSigningFile = "signing.yml"

var (
	cfgFile     string
	signingFile string
	verbose     bool
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "buildcfg",
	Short: "Android build descriptor resolver",
	Long: `buildcfg resolves declarative Android/Flutter build descriptors into
immutable, fully-populated build configurations.

Descriptors are YAML, TOML or HCL. Gradle Kotlin scripts can be imported.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "descriptor file (default: "+config.DefaultDescriptorFile+")")
	rootCmd.PersistentFlags().StringVar(&signingFile, "signing", "", "signing table (default: $"+SigningEnv+", then "+DefaultSigningFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// descriptorPath picks the descriptor: positional argument, then --config,
// then the default file name.
func descriptorPath(args []string) string {
	switch {
	case len(args) > 0:
		return args[0]
	case cfgFile != "":
		return cfgFile
	default:
		return config.DefaultDescriptorFile
	}
}

// signingPath applies flag > env > default precedence.
func signingPath() string {
	if signingFile != "" {
		return signingFile
	}
	if p := os.Getenv(SigningEnv); p != "" {
		return p
	}
	return DefaultSigningFile
}

// loadSigning returns the built-in debug entry merged with the signing
// table, if one exists.
func loadSigning() (signing.Table, error) {
	path := signingPath()
	table, err := signing.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading signing table: %w", err)
	}
	logger.Debug("signing table loaded", zap.String("path", path), zap.Strings("entries", table.Names()))
	return signing.Default().Merge(table), nil
}
