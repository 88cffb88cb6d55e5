package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/courseportal/apps/api/echo"
	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/schedule"
)

type ArgumentError struct {
	msg string
}

func newArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{fmt.Sprintf(format, args...)}
}

func (err *ArgumentError) Error() string {
	return err.msg
}

type commandLine struct {
	catalogSvc *catalog.Service
	maxCredits int
	out        io.Writer
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) rootCmd() *cobra.Command {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Course portal administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetOut(out)
	root.AddCommand(cli.tokenCmd(), cli.coursesCmd(), cli.checkCmd())
	return root
}

func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		studentID string
		name      string
		isAdmin   bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if core.CleanString(studentID) == "" {
				return newArgumentError("--student is required")
			}
			token, err := echoapi.GenerateToken(echoapi.NewClaims(studentID, name, isAdmin))
			if err != nil {
				return errors.Wrap(err, "generating token")
			}
			cmd.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student ID (token subject)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "grant admin rights")
	return cmd
}

func (cli *commandLine) coursesCmd() *cobra.Command {
	var filter catalog.QueryFilter
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Clean()
			courses, err := cli.catalogSvc.Query(context.Background(), filter)
			if err != nil {
				return errors.Wrap(err, "querying courses")
			}
			if len(courses) == 0 {
				cmd.Println("no courses")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tNAME\tDEPT\tDAY\tTIME\tCREDITS\tCAPACITY\tSTATUS")
			for _, c := range courses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					c.ID, c.Code, c.Name, c.Dept, c.Day, c.Time, c.Credits, c.Capacity, c.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "match name or code")
	cmd.Flags().StringVar(&filter.Dept, "dept", "", "department")
	cmd.Flags().StringVar(&filter.Day, "day", "", "weekday (Mon..Fri)")
	return cmd
}

func (cli *commandLine) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check CODE...",
		Short: "Report time conflicts and credits for a set of courses",
		Long: `check picks the first catalog section of each course code (or a section ID)
and reports every overlapping pair along with the credit total.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := cli.selection(context.Background(), args)
			if err != nil {
				return err
			}

			total := sel.TotalCredits()
			cmd.Printf("credits: %d/%d\n", total, cli.maxCredits)
			if total > cli.maxCredits {
				cmd.Println("over the credit limit")
			}

			pairs := sel.Conflicts()
			if len(pairs) == 0 {
				cmd.Println("no conflicts")
				return nil
			}
			for _, p := range pairs {
				cmd.Printf("conflict: %s <> %s\n", p.A, p.B)
			}
			return nil
		},
	}
}

// selection resolves args into sections, in order. Repeated sections are skipped.
func (cli *commandLine) selection(ctx context.Context, args []string) (schedule.Selection, error) {
	secs, err := cli.catalogSvc.Sections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing sections")
	}

	sel := schedule.Selection{}
	for _, arg := range args {
		ref := core.CleanString(arg)
		found := false
		for _, s := range secs {
			if s.ID == ref || strings.EqualFold(s.Code, ref) {
				if !sel.Contains(s.ID) {
					sel = append(sel, s)
				}
				found = true
				break
			}
		}
		if !found {
			return nil, newArgumentError("unknown course %q", arg)
		}
	}
	return sel, nil
}
