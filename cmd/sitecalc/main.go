package main

import (
	"fmt"
	"os"

	"site-intel-service/internal/county"

	"github.com/spf13/cobra"
)

type options struct {
	jsonOut bool
	profile string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "sitecalc",
		Short:         "Solar farm and data center site calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "always print JSON, even on a terminal")
	rootCmd.PersistentFlags().StringVar(&opts.profile, "county-profile", "", "YAML county profile (default Bosque County)")

	rootCmd.AddCommand(solarCmd(opts))
	rootCmd.AddCommand(dataCenterCmd(opts))
	rootCmd.AddCommand(areaCmd(opts))
	rootCmd.AddCommand(distanceCmd(opts))
	rootCmd.AddCommand(parcelsCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (o *options) county() (county.Profile, error) {
	if o.profile == "" {
		return county.Bosque(), nil
	}
	return county.LoadProfile(o.profile)
}
