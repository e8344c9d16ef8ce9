package main

import (
	"os"
	"time"

	"github.com/okian/archer/internal/reportclient"
	"github.com/okian/archer/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	defaultURL     = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
)

type rootOptions struct {
	url     string
	timeout time.Duration
	output  string
	verbose bool
}

func (o *rootOptions) client() *reportclient.Client {
	return reportclient.New(
		reportclient.WithBaseURL(o.url),
		reportclient.WithTimeout(o.timeout),
	)
}

func (o *rootOptions) printer(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), format: o.output}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	url := os.Getenv("ARCHER_URL")
	if url == "" {
		url = defaultURL
	}

	cmd := &cobra.Command{
		Use:   "archerctl",
		Short: "Build student assessment reports",
		Long: `archerctl talks to a running Archer report service: it edits the
roster, grades skills, selects the student's coach and batch, and fetches
the verdict and report. score, parse and verdict --score work offline.

Examples:
  archerctl roster
  archerctl student --name "Riya Sen" --coach Dilip --batch "WS 8 PM IST"
  archerctl grade middle-game A+
  archerctl signature signature.png
  archerctl report -o json
  archerctl score A A B C A+ B B C D`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.verbose {
				return logger.SetLevelString("debug")
			}
			return logger.SetLevelString("warn")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", url, "Base URL of the service (env ARCHER_URL)")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.StringVarP(&opts.output, "output", "o", formatText, "Output format: text, json or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newRosterCmd(opts),
		newAddCoachCmd(opts),
		newAddBatchCmd(opts),
		newSkillsCmd(opts),
		newGradeCmd(opts),
		newStudentCmd(opts),
		newReviewCmd(opts),
		newSignatureCmd(opts),
		newReportCmd(opts),
		newVerdictCmd(opts),
		newScoreCmd(opts),
		newParseCmd(opts),
	)
	return cmd
}
