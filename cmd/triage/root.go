package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/mediflow/internal/config"
	"github.com/JaimeStill/mediflow/internal/infrastructure"
	"github.com/JaimeStill/mediflow/internal/redflags"
	"github.com/JaimeStill/mediflow/internal/triage"
)

type options struct {
	configPath string
	output     string
	verbose    bool

	// build constructs the triage system. Nil selects pipeline.
	build func() (triage.System, error)
}

func (o *options) system() (triage.System, error) {
	if o.build != nil {
		return o.build()
	}
	return o.pipeline()
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "triage",
		Short: "Classify symptom descriptions into RED, YELLOW, or GREEN intake urgency",
		Long: `triage runs the MediFlow classification pipeline in-process.

Red-flag symptoms are classified RED without contacting the model backend.
Everything else is sent to the configured Azure OpenAI deployment; any
failure produces a YELLOW advisory recommending human review.

Exit status is 0 for a classification, 1 when the pipeline fell back,
and 2 for empty input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validFormat(opts.output)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.BaseConfigFile, "Path to the base TOML config")
	flags.StringVarP(&opts.output, "output", "o", formatHuman, "Output format (human, json, yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Write pipeline logs to stderr")

	rootCmd.AddCommand(
		newClassifyCmd(opts),
		newBatchCmd(opts),
		newRulesCmd(opts),
	)

	return rootCmd
}

// pipeline loads configuration and builds the triage system the server would use.
func (o *options) pipeline() (triage.System, error) {
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	var logOut io.Writer = io.Discard
	if o.verbose {
		logOut = os.Stderr
	}

	infra, err := infrastructure.NewWithOutput(cfg, logOut, nil)
	if err != nil {
		return nil, err
	}

	return triage.New(redflags.New(), infra.Gateway, infra.Logger), nil
}
