package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/mediflow/internal/triage"
)

// Output formats accepted by --output.
const (
	formatHuman = "human"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const (
	placeholderMessage = "Administrative urgency classification returned."
	maxShownReasons    = 4
	maxShownFlags      = 6
)

func validFormat(format string) error {
	switch format {
	case formatHuman, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (human, json, yaml)", format)
}

// render writes one result in the selected format.
func render(w io.Writer, result triage.Result, format string) error {
	switch format {
	case formatJSON:
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	default:
		renderHuman(w, result)
		return nil
	}
}

func tierColor(c triage.Color) *color.Color {
	switch c {
	case triage.Red:
		return color.New(color.FgWhite, color.BgRed, color.Bold)
	case triage.Green:
		return color.New(color.FgBlack, color.BgGreen, color.Bold)
	default:
		return color.New(color.FgBlack, color.BgYellow, color.Bold)
	}
}

func renderHuman(w io.Writer, result triage.Result) {
	heading := color.New(color.FgCyan, color.Bold)
	badge := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	tierColor(result.Color).Fprintf(w, " %s ", result.Color)
	fmt.Fprintln(w)

	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = placeholderMessage
	}
	fmt.Fprintf(w, "%s\n", message)

	if len(result.Reasons) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Why?")
		for _, r := range result.Reasons[:min(len(result.Reasons), maxShownReasons)] {
			fmt.Fprintf(w, "  • %s\n", r)
		}
	}

	if len(result.RedFlagsDetected) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Red flags detected")
		badges := make([]string, 0, maxShownFlags)
		for _, f := range result.RedFlagsDetected[:min(len(result.RedFlagsDetected), maxShownFlags)] {
			badges = append(badges, badge.Sprintf("[%s]", f))
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(badges, " "))
	}

	fmt.Fprintln(w)
	color.New(color.Faint).Fprintln(w, "Administrative classification only")
}
