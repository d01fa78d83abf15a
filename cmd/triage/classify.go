package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/mediflow/internal/triage"
)

func newClassifyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [symptoms...]",
		Short: "Classify one symptom description",
		Long: `Classify one symptom description.

The description is taken from the arguments, or from stdin when no
arguments are given.`,
		Example: `  triage classify "chest pain and shortness of breath"
  echo "mild runny nose" | triage classify -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := symptomText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			sys, err := opts.system()
			if err != nil {
				return err
			}

			stop := startSpinner(opts.output)
			result, classifyErr := sys.Classify(cmd.Context(), triage.Request{SymptomText: text})
			stop()

			if err := render(cmd.OutOrStdout(), result, opts.output); err != nil {
				return err
			}

			if code := exitCode(classifyErr); code != exitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	return cmd
}

func symptomText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// startSpinner shows progress on an interactive stderr for human output.
// The returned func stops it.
func startSpinner(format string) func() {
	if format != formatHuman || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Classifying..."
	s.Start()
	return s.Stop
}
