package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/signature"
	"github.com/okian/archer/internal/reportclient"
	"github.com/spf13/cobra"
)

func newRosterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List coaches and their batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coaches, err := opts.client().Roster(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(coaches, func(w *tabwriter.Writer) {
				printCoaches(w, coaches)
			})
		},
	}
}

func printCoaches(w *tabwriter.Writer, coaches []model.Coach) {
	fmt.Fprintln(w, "COACH\tBATCH\tLEVEL")
	for _, c := range coaches {
		if len(c.Batches) == 0 {
			fmt.Fprintf(w, "%s\t-\t-\n", c.Name)
			continue
		}
		for _, b := range c.Batches {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, b.Name, b.Level)
		}
	}
}

func newAddCoachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-coach NAME",
		Short: "Add a coach to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coach, err := opts.client().AddCoach(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(coach, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "added coach %s\n", coach.Name)
			})
		},
	}
}

func newAddBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-batch COACH BATCH [LEVEL]",
		Short: "Add a batch to an existing coach",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := model.Batch{Name: args[1]}
			if len(args) == 3 {
				b.Level = args[2]
			}
			applied, err := opts.client().AddBatch(cmd.Context(), args[0], b)
			if err != nil {
				return err
			}
			result := map[string]bool{"applied": applied}
			return opts.printer(cmd).print(result, func(w *tabwriter.Writer) {
				if applied {
					fmt.Fprintf(w, "added batch %s to %s\n", b.Name, args[0])
					return
				}
				fmt.Fprintf(w, "no coach named %s, nothing changed\n", args[0])
			})
		},
	}
}

func newSkillsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "Show the skill sheet with its total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sheet, err := opts.client().Skills(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(sheet, func(w *tabwriter.Writer) {
				printSkills(w, sheet)
			})
		},
	}
}

func printSkills(w *tabwriter.Writer, sheet reportclient.Skills) {
	fmt.Fprintln(w, "ID\tSKILL\tGRADE\tSCORE")
	for _, s := range sheet.Skills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Grade, s.Score)
	}
	fmt.Fprintf(w, "\tTotal\t\t%d / %d\n", sheet.Total, sheet.Max)
}

func newGradeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grade SKILL GRADE",
		Short: "Set the grade of one skill",
		Long:  "SKILL is a skill id such as middle-game or a skill name. GRADE is one of A+, A, B, C, D, E.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grade.Parse(args[1])
			if err != nil {
				return err
			}
			skill, err := opts.client().SetGrade(cmd.Context(), model.SkillID(args[0]), g)
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(skill, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "%s\t%s\t%d\n", skill.Name, skill.Grade, skill.Score)
			})
		},
	}
}

func newStudentCmd(opts *rootOptions) *cobra.Command {
	var name, coach, batch string
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Show or update the student selection",
		Long: `Without flags the current selection is shown. Selecting a coach clears
the batch and level; selecting a batch derives the level from the roster.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := opts.client()
			var u reportclient.StudentUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("coach") {
				u.Coach = &coach
			}
			if cmd.Flags().Changed("batch") {
				u.Batch = &batch
			}

			var (
				student model.Student
				err     error
			)
			if u.Name == nil && u.Coach == nil && u.Batch == nil {
				student, err = client.Student(cmd.Context())
			} else {
				student, err = client.UpdateStudent(cmd.Context(), u)
			}
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(student, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Name:\t%s\n", student.Name)
				fmt.Fprintf(w, "Coach:\t%s\n", student.Coach)
				fmt.Fprintf(w, "Batch:\t%s\n", student.Batch)
				fmt.Fprintf(w, "Level:\t%s\n", student.Level)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Student name")
	cmd.Flags().StringVar(&coach, "coach", "", "Coach name")
	cmd.Flags().StringVar(&batch, "batch", "", "Batch name of the selected coach")
	return cmd
}

func newReviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review TEXT...",
		Short: "Set the coach review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := opts.client().SetReview(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(map[string]string{"text": text}, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "review saved (%d characters)\n", len([]rune(text)))
			})
		},
	}
}

func newSignatureCmd(opts *rootOptions) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "signature [IMAGE]",
		Short: "Show, upload or clear the coach signature",
		Long: `IMAGE is a PNG, JPEG, GIF or WebP file of at most 512 KiB. Without an
argument the current signature state is shown; --clear removes it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			var (
				dataURL string
				err     error
			)
			switch {
			case remove && len(args) > 0:
				return fmt.Errorf("--clear takes no image")
			case remove:
				err = client.ClearSignature(cmd.Context())
			case len(args) == 1:
				var data []byte
				if data, err = os.ReadFile(args[0]); err != nil {
					return fmt.Errorf("failed to read signature: %w", err)
				}
				sig, serr := signature.New(data)
				if serr != nil {
					return serr
				}
				dataURL, err = client.SetSignature(cmd.Context(), sig.DataURL())
			default:
				dataURL, err = client.Signature(cmd.Context())
			}
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(map[string]string{"signature": dataURL}, func(w *tabwriter.Writer) {
				if dataURL == "" {
					fmt.Fprintln(w, "no signature")
					return
				}
				mediaType, _, _ := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ";")
				fmt.Fprintf(w, "signature set (%s, %d characters)\n", mediaType, len(dataURL))
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "clear", false, "Remove the signature")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Build the report for the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.client().Report(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(r, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Report:\t%s\n", r.Filename)
				fmt.Fprintf(w, "Date:\t%s\n", r.Date)
				fmt.Fprintf(w, "Student:\t%s\n", r.Student.Name)
				fmt.Fprintf(w, "Coach:\t%s\n", r.Student.Coach)
				fmt.Fprintf(w, "Batch:\t%s (%s)\n", r.Student.Batch, r.Student.Level)
				fmt.Fprintf(w, "Total:\t%d / %d\n", r.Total, r.Max)
				fmt.Fprintf(w, "Verdict:\t%s %s\n", r.Verdict.Icon, r.Verdict.Label)
				if r.Readiness != nil {
					fmt.Fprintf(w, "Readiness:\t%d%%\n", *r.Readiness)
				}
				for _, a := range r.ImprovementAreas {
					fmt.Fprintf(w, "Improve:\t%s (%s)\n", a.Name, a.Grade)
				}
				fmt.Fprintf(w, "Review:\t%s\n", r.Review)
				if r.Signature != "" {
					fmt.Fprintf(w, "Signed:\t%s\n", r.Signatory)
				}
			})
		},
	}
}
