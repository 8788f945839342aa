package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tidalrip/config"
	"tidalrip/lucida"
	"tidalrip/progress"
	"tidalrip/ripper"
	"tidalrip/scrape"
)

// errRipFailed signals a failure already reported through the result
// object on stdout, so main only needs a non-zero exit
var errRipFailed = errors.New("rip failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRipFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:           "tidalrip <tidal-track-url>",
		Short:         "Download a Tidal track through the lucida.to conversion service",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			reporter := progress.NewReporter(os.Stderr, progress.ParseLevel(cfg.LogLevel))
			defer reporter.Sync()

			scraper := scrape.NewScraper(nil, "https://"+cfg.Host, cfg.UserAgent, reporter)
			client := lucida.NewClient(cfg, reporter)

			result := ripper.New(cfg, scraper, client, reporter).Rip(cmd.Context(), args[0], outputDir)

			if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
				return err
			}

			if result.Status != lucida.ResultSuccess {
				return errRipFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for the downloaded file")

	return cmd
}
