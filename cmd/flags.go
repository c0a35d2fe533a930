package cmd

import (
	"fmt"
	"strings"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output formats accepted by --output.
var outputFormats = []string{"table", "json", "yaml"}

// carouselFlagBindings maps configuration keys to the carousel flags.
var carouselFlagBindings = map[string]string{
	"carousel.items_file":        "items",
	"carousel.active_index":      "active-index",
	"carousel.autoplay":          "autoplay",
	"carousel.autoplay_interval": "interval",
	"carousel.loop":              "loop",
}

// addCarouselFlags adds the engine inputs shared by serve and play. The
// defaults match the configuration defaults.
func addCarouselFlags(cmd *cobra.Command) {
	cmd.Flags().String("items", "", "items file (YAML or JSON); built-in samples when empty")
	cmd.Flags().Int("active-index", 0, "initially active item")
	cmd.Flags().Bool("autoplay", false, "advance automatically")
	cmd.Flags().Int("interval", int(carousel.DefaultInterval.Milliseconds()), "autoplay interval in milliseconds")
	cmd.Flags().Bool("loop", false, "wrap around at either end")
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "table", "Output format ("+strings.Join(outputFormats, "|")+")")
}

// bindFlags binds viper keys to flags of the running command only, so two
// commands declaring the same flag never shadow each other.
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func validateOutputFormat(format string) error {
	for _, f := range outputFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s (supported: %s)", format, strings.Join(outputFormats, ", "))
}
