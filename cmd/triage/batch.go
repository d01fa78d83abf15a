package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/mediflow/internal/triage"
)

const defaultConcurrency = 4

type batchOptions struct {
	file        string
	concurrency int
}

func newBatchCmd(opts *options) *cobra.Command {
	bo := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify one symptom description per line",
		Long: `Classify one symptom description per input line.

Blank lines are skipped. Results are written in input order. The exit
status is the most severe status of any line.`,
		Example: `  triage batch --file intake.txt -o json
  cat intake.txt | triage batch --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bo.concurrency < 1 {
				return fmt.Errorf("concurrency must be at least 1: %d", bo.concurrency)
			}

			in := cmd.InOrStdin()
			if bo.file != "" && bo.file != "-" {
				f, err := os.Open(bo.file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			lines, err := readLines(in)
			if err != nil {
				return err
			}

			sys, err := opts.system()
			if err != nil {
				return err
			}

			stop := startSpinner(opts.output)
			outcomes := classifyAll(cmd, sys, lines, bo.concurrency)
			stop()

			code := exitOK
			for _, o := range outcomes {
				if err := render(cmd.OutOrStdout(), o.result, opts.output); err != nil {
					return err
				}
				code = max(code, exitCode(o.err))
			}

			if code != exitOK {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bo.file, "file", "f", "", "Input file, one description per line (default stdin)")
	cmd.Flags().IntVar(&bo.concurrency, "concurrency", defaultConcurrency, "Maximum concurrent classifications")

	return cmd
}

type outcome struct {
	result triage.Result
	err    error
}

// classifyAll classifies every line with at most limit calls in flight.
// Per-line failures are recorded in the outcome rather than cancelling
// the batch.
func classifyAll(cmd *cobra.Command, sys triage.System, lines []string, limit int) []outcome {
	outcomes := make([]outcome, len(lines))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(limit)

	for i, line := range lines {
		g.Go(func() error {
			result, err := sys.Classify(ctx, triage.Request{SymptomText: line})
			outcomes[i] = outcome{result: result, err: err}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
