package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/roster"
	"github.com/okian/archer/internal/domain/scoring"
	"github.com/okian/archer/internal/domain/verdict"
	"github.com/okian/archer/pkg/logger"
	"github.com/spf13/cobra"
)

type thresholds struct {
	ready  int
	almost int
}

func (t *thresholds) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.ready, "ready", verdict.DefaultReadyThreshold, "Lowest score classified READY")
	cmd.Flags().IntVar(&t.almost, "almost", verdict.DefaultAlmostThreshold, "Lowest score classified ALMOST")
}

func (t *thresholds) classifier() (*verdict.Classifier, error) {
	if t.ready <= t.almost {
		return nil, fmt.Errorf("--ready (%d) must be greater than --almost (%d)", t.ready, t.almost)
	}
	return verdict.NewClassifier(verdict.WithThresholds(t.ready, t.almost)), nil
}

func printVerdict(w *tabwriter.Writer, v verdict.Verdict) {
	fmt.Fprintf(w, "Score:\t%d\n", v.Score)
	fmt.Fprintf(w, "Verdict:\t%s %s (%s)\n", v.Icon, v.Label, v.Status)
}

func newVerdictCmd(opts *rootOptions) *cobra.Command {
	var (
		score int
		th    thresholds
	)
	cmd := &cobra.Command{
		Use:   "verdict",
		Short: "Show the verdict of the session or of a given score",
		Long: `Without --score the verdict of the running session is fetched. With
--score the score is classified locally using --ready and --almost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				v   verdict.Verdict
				err error
			)
			if cmd.Flags().Changed("score") {
				c, cerr := th.classifier()
				if cerr != nil {
					return cerr
				}
				v = c.Classify(score)
			} else {
				v, err = opts.client().Verdict(cmd.Context())
				if err != nil {
					return err
				}
			}
			return opts.printer(cmd).print(v, func(w *tabwriter.Writer) {
				printVerdict(w, v)
			})
		},
	}
	cmd.Flags().IntVar(&score, "score", 0, "Classify this score offline")
	th.register(cmd)
	return cmd
}

type scoreResult struct {
	Skills  []model.SkillEvaluation `json:"skills"`
	Total   int                     `json:"total"`
	Max     int                     `json:"max"`
	Verdict verdict.Verdict         `json:"verdict"`
	Weakest []model.SkillEvaluation `json:"weakest,omitempty"`
}

// applyGrades sets grades on sheet. Arguments are either one bare grade per
// skill in report order, or skill=grade pairs.
func applyGrades(sheet *scoring.Sheet, args []string) error {
	evals := sheet.Evaluations()
	positional := 0
	for _, arg := range args {
		id, symbol, paired := strings.Cut(arg, "=")
		if !paired {
			if positional >= len(evals) {
				return fmt.Errorf("too many grades: the sheet has %d skills", len(evals))
			}
			symbol = arg
			id = evals[positional].ID
			positional++
		}
		g, err := grade.Parse(symbol)
		if err != nil {
			return err
		}
		if err := sheet.SetGrade(model.SkillID(id), g); err != nil {
			return err
		}
	}
	return nil
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var (
		defaultGrade string
		areas        int
		th           thresholds
	)
	cmd := &cobra.Command{
		Use:   "score GRADE...",
		Short: "Score a skill sheet offline",
		Long: `Grades are given one per skill in report order:
  ` + strings.Join(model.Skills, ", ") + `
or as skill=grade pairs, e.g. endgame=D patience=C. Skills without a grade
keep the default grade.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grade.Parse(defaultGrade)
			if err != nil {
				return err
			}
			c, err := th.classifier()
			if err != nil {
				return err
			}
			sheet := scoring.NewSheet(scoring.WithDefaultGrade(g))
			if err := applyGrades(sheet, args); err != nil {
				return err
			}

			res := scoreResult{
				Skills:  sheet.Evaluations(),
				Total:   sheet.Total(),
				Max:     sheet.Max(),
				Verdict: c.Classify(sheet.Total()),
			}
			if res.Verdict.Status == verdict.StatusAlmost {
				res.Weakest = sheet.Lowest(areas)
			}
			return opts.printer(cmd).print(res, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "SKILL\tGRADE\tSCORE")
				for _, s := range res.Skills {
					fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.Grade, s.Score())
				}
				fmt.Fprintf(w, "Total\t\t%d / %d\n", res.Total, res.Max)
				fmt.Fprintf(w, "Verdict\t\t%s %s\n", res.Verdict.Icon, res.Verdict.Label)
				for _, s := range res.Weakest {
					fmt.Fprintf(w, "Improve\t\t%s\n", s.Name)
				}
			})
		},
	}
	cmd.Flags().StringVar(&defaultGrade, "default", grade.C.String(), "Grade of skills not listed")
	cmd.Flags().IntVar(&areas, "areas", 3, "Weakest skills listed for an ALMOST verdict")
	th.register(cmd)
	return cmd
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a roster CSV and print the normalised roster",
		Long: `FILE uses the academy roster layout: a header line, then
serial, coach name, batch and level per row. Malformed rows are reported
on stderr and skipped. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			ctx := cmd.Context()
			log := logger.Named("roster")
			r, err := roster.Load(src, roster.WithSkipHook(func(line int, reason string) {
				log.Warn(ctx, "skipped roster row",
					logger.Int("line", line), logger.String("reason", reason))
			}))
			if err != nil {
				// The rows read before the failure are still printed.
				log.Error(ctx, "roster read stopped early", logger.Error(err))
			}

			coaches := r.Coaches()
			return opts.printer(cmd).print(coaches, func(w *tabwriter.Writer) {
				printCoaches(w, coaches)
				fmt.Fprintf(w, "\n%d coaches, %d batches\n", r.Len(), r.BatchCount())
			})
		},
	}
}
