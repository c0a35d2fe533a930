package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/fluentcarousel/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information including the semantic version, git
commit, build time, Go version and target platform.

Examples:
  carousel version              # Show short version
  carousel version --detailed   # Show detailed version info
  carousel version --format json`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(version.GetBuildInfo())
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(version.GetBuildInfo())
	case "text":
		return outputVersionText(out, detailed)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}

func outputVersionText(out io.Writer, detailed bool) error {
	switch {
	case versionShort:
		fmt.Fprintln(out, version.GetShortVersion())
	case detailed:
		fmt.Fprintln(out, version.GetDetailedVersion())
		if version.IsDirty() {
			fmt.Fprintln(out, "Working directory: dirty")
		}
		if version.IsRelease() {
			fmt.Fprintln(out, "Build type: release")
		} else {
			fmt.Fprintln(out, "Build type: development")
		}
	default:
		fmt.Fprintf(out, "carousel %s\n", version.GetShortVersion())
	}
	return nil
}
