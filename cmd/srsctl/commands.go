package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/phrazzld/hanzi-srs/internal/domain"
	"github.com/phrazzld/hanzi-srs/internal/importer"
	"github.com/phrazzld/hanzi-srs/internal/platform/migrate"
	"github.com/phrazzld/hanzi-srs/internal/platform/storage"
	"github.com/phrazzld/hanzi-srs/internal/service/study"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04"

func newSaveCmd(opts *globalOptions) *cobra.Command {
	var word domain.Word

	cmd := &cobra.Command{
		Use:   "save KEY",
		Short: "Save a word as a new review card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			word.Key = args[0]
			res, err := e.study.SaveWord(cmd.Context(), word)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s\n", res.Status, word.Key)
			if res.Card != nil {
				printCard(out, res.Card)
			}
			if res.Status == study.SaveStatusUnavailable {
				return errors.New("storage unavailable; card not saved")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&word.Level, "level", "", "HSK level label, e.g. \"HSK 3\" or \"7-9\"")
	cmd.Flags().StringVar(&word.Pinyin, "pinyin", "", "pinyin reading")
	cmd.Flags().StringVar(&word.MeaningVI, "vi", "", "Vietnamese meaning")
	cmd.Flags().StringVar(&word.MeaningEN, "en", "", "English meaning")
	return cmd
}

func newLookupCmd(opts *globalOptions) *cobra.Command {
	var peek bool

	cmd := &cobra.Command{
		Use:   "lookup KEY",
		Short: "Record a manual lookup of a word and print its lookup count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			var n int
			if peek {
				n, err = e.study.LookupCount(cmd.Context(), args[0])
			} else {
				n, err = e.study.RecordLookup(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", args[0], n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&peek, "peek", false, "print the count without recording a lookup")
	return cmd
}

func newReviewCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review KEY RATING",
		Short: "Grade a card with again/hard/good/easy or a quality from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			var res *study.ReviewResult
			if q, convErr := strconv.Atoi(args[1]); convErr == nil {
				res, err = e.study.Review(cmd.Context(), args[0], domain.Quality(q))
			} else {
				var rating domain.Rating
				rating, err = domain.ParseRating(args[1])
				if err == nil {
					res, err = e.study.ReviewRating(cmd.Context(), args[0], rating)
				}
			}
			if err != nil {
				return err
			}
			return printReview(cmd.OutOrStdout(), res)
		},
	}
}

func newPostponeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "postpone KEY DAYS",
		Short: "Push a card's next review into the future",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid days %q: %w", args[1], err)
			}

			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.study.Postpone(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printReview(cmd.OutOrStdout(), res)
		},
	}
}

func newDueCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due LEVEL",
		Short: "List the cards of a level that are due for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			cards, err := e.study.DueQueue(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLEVEL\tREPS\tINTERVAL\tNEXT REVIEW")
			for _, c := range cards {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					c.Key, c.Level, c.Repetitions, c.Interval, c.NextReview.Format(dateLayout))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d due\n", len(cards))
			return nil
		},
	}
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [LEVEL]",
		Short: "Show new/learning/mastered counts for one level or all levels",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			var all []domain.Analytics
			if len(args) == 1 {
				a, err := e.study.Analytics(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				all = []domain.Analytics{a}
			} else {
				all, err = e.study.AllAnalytics(cmd.Context())
				if err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LEVEL\tNEW\tLEARNING\tMASTERED\tTOTAL\tDUE")
			for _, a := range all {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
					a.Level, a.New, a.Learning, a.Mastered, a.Total, a.Due())
			}
			return w.Flush()
		},
	}
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var (
		sheet    string
		noHeader bool
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import words from an .xlsx or .csv file (key, level, pinyin, vi, en)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := importer.DefaultConfig(args[0])
			cfg.SheetName = sheet
			cfg.SkipHeader = !noHeader
			cfg.Workers = workers

			res, err := importer.Import(cmd.Context(), e.study, cfg)
			if res != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "processed %d, created %d, existing %d, skipped %d, errors %d\n",
					res.Processed, res.Created, res.Existing, res.Skipped, len(res.Errors))
				for _, msg := range res.Errors {
					fmt.Fprintln(out, msg)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "the first row holds data, not column names")
	cmd.Flags().IntVar(&workers, "workers", 4, "rows saved concurrently")
	return cmd
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the storage schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{migrate.CommandUp, migrate.CommandDown, migrate.CommandStatus, migrate.CommandVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrate.CommandUp
			if len(args) == 1 {
				command = args[0]
			}

			e, err := openEnv(cmd.Context(), cmd, opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			m, err := e.backend.Migrator()
			if errors.Is(err, storage.ErrNoMigrations) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s storage has no schema\n", e.backend.Driver)
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch command {
			case migrate.CommandStatus:
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tMIGRATION")
				for _, s := range statuses {
					applied := "pending"
					if s.Applied {
						applied = s.AppliedAt.Format(dateLayout)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, applied, s.Path)
				}
				return w.Flush()
			case migrate.CommandVersion:
				v, err := m.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\n", v)
				return nil
			default:
				if err := m.Run(cmd.Context(), command); err != nil {
					return err
				}
				fmt.Fprintf(out, "migrate %s: ok\n", command)
				return nil
			}
		},
	}
}

func printCard(w io.Writer, c *domain.Card) {
	last := "never"
	if c.LastReview != nil {
		last = c.LastReview.Format(dateLayout)
	}
	fmt.Fprintf(w, "level %s  ef %.2f  interval %dd  reps %d  lapses %d  friction %t\n",
		c.Level, c.EasinessFactor, c.Interval, c.Repetitions, c.Lapses, c.Friction)
	fmt.Fprintf(w, "last review %s  next review %s\n", last, c.NextReview.Format(dateLayout))
}

func printReview(w io.Writer, res *study.ReviewResult) error {
	fmt.Fprintf(w, "%s\t%s\n", res.Status, res.Card.Key)
	printCard(w, res.Card)
	if res.Status == study.ReviewStatusUnpersisted {
		return errors.New("storage unavailable; review not saved")
	}
	return nil
}
