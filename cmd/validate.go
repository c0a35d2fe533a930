package cmd

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/fluentcarousel/internal/config"
	carouselerrors "github.com/conneroisu/fluentcarousel/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:     "validate <items-file>",
	Aliases: []string{"v"},
	Short:   "Validate a carousel items file",
	Long: `Parse an items file (YAML, or JSON by extension) and report every
problem found: syntax errors, entries that are not objects and duplicate ids.
Items without an id are listed with the id they would be assigned.

Examples:
  carousel validate slides.yml
  carousel validate slides.json -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addOutputFlag(validateCmd, &validateOutput)
}

// validationReport is the machine readable result of validate.
type validationReport struct {
	File     string         `json:"file" yaml:"file"`
	Valid    bool           `json:"valid" yaml:"valid"`
	Items    []reportedItem `json:"items,omitempty" yaml:"items,omitempty"`
	Problems []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
}

type reportedItem struct {
	Index int    `json:"index" yaml:"index"`
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(validateOutput); err != nil {
		return err
	}

	report := buildValidationReport(args[0])
	if err := writeReport(cmd.OutOrStdout(), report, validateOutput); err != nil {
		return err
	}

	if !report.Valid {
		return fmt.Errorf("%s: %d problem(s) found", report.File, len(report.Problems))
	}
	return nil
}

func buildValidationReport(path string) validationReport {
	report := validationReport{File: path}

	items, err := config.LoadItems(path)
	if err != nil {
		report.Problems = problemsOf(err)
		return report
	}

	report.Valid = true
	for i, item := range items {
		report.Items = append(report.Items, reportedItem{Index: i, ID: item.ID, Title: item.Title})
	}
	return report
}

// problemsOf flattens a validation collection into one line per problem.
func problemsOf(err error) []string {
	var vec *carouselerrors.ValidationErrorCollection
	if stderrors.As(err, &vec) {
		problems := make([]string, 0, len(vec.Errors))
		for _, fe := range vec.Errors {
			problems = append(problems, fe.ErrorMessage)
		}
		return problems
	}
	return []string{err.Error()}
}

func writeReport(out io.Writer, report validationReport, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(report)
	default:
		return writeReportTable(out, report)
	}
}

func writeReportTable(out io.Writer, report validationReport) error {
	if !report.Valid {
		fmt.Fprintf(out, "%s: invalid\n", report.File)
		for _, problem := range report.Problems {
			fmt.Fprintf(out, "  - %s\n", problem)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tID\tTITLE")
	fmt.Fprintln(w, strings.Repeat("-", 5)+"\t"+strings.Repeat("-", 2)+"\t"+strings.Repeat("-", 5))
	for _, item := range report.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.Index, item.ID, item.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s: %d item(s), valid\n", report.File, len(report.Items))
	return nil
}
