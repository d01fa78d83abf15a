package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the red-flag rule keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := opts.system()
			if err != nil {
				return err
			}
			keys := sys.Rules()
			w := cmd.OutOrStdout()

			switch opts.output {
			case formatJSON:
				data, err := json.Marshal(map[string][]string{"rules": keys})
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			case formatYAML:
				data, err := yaml.Marshal(map[string][]string{"rules": keys})
				if err != nil {
					return err
				}
				fmt.Fprint(w, string(data))
			default:
				for _, k := range keys {
					fmt.Fprintln(w, k)
				}
			}
			return nil
		},
	}
}
