package commands

import (
	"context"
	"fmt"
	"ucassist-backend/internal/models"

	"github.com/spf13/cobra"
)

const (
	OPERATION_COURSES = "courses"
	OPERATION_EXAMS   = "exams"
	OPERATION_GRADES  = "grades"
	OPERATION_BOOKS   = "books"
)

var operations = []string{OPERATION_COURSES, OPERATION_EXAMS, OPERATION_GRADES, OPERATION_BOOKS}

var fetchCookie string

// fetchCommand builds a command that runs one pipeline, keeps a snapshot of
// the result when a database is configured and prints it.
func fetchCommand(
	operation, use, short string,
	args cobra.PositionalArgs,
	run func(ctx context.Context, g *globals, args []string) models.Envelope,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g := getGlobals(ctx)

			env := run(ctx, g, args)
			if g.store != nil && env.Ok() {
				id, err := g.store.Save(ctx, operation, env)
				if err != nil {
					return fmt.Errorf("save snapshot: %w", err)
				}
				g.tel.ReportDebug("saved snapshot", operation, id)
			}

			if tableOut && env.Ok() {
				return renderTable(cmd.OutOrStdout(), env.Data)
			}
			return printEnvelope(cmd.OutOrStdout(), env)
		},
	}
	cmd.Flags().StringVarP(&fetchCookie, "cookie", "c", "", "Session cookie printed by the login command.")
	return cmd
}

var coursesCmd = fetchCommand(
	OPERATION_COURSES,
	"courses",
	"Fetch the course timetable from the mobile portal.",
	cobra.NoArgs,
	func(ctx context.Context, g *globals, _ []string) models.Envelope {
		return g.service.FetchCourses(ctx, fetchCookie)
	},
)

var examsCmd = fetchCommand(
	OPERATION_EXAMS,
	"exams",
	"Fetch the exam schedule from the mobile portal.",
	cobra.NoArgs,
	func(ctx context.Context, g *globals, _ []string) models.Envelope {
		return g.service.FetchExams(ctx, fetchCookie)
	},
)

var gradesCmd = fetchCommand(
	OPERATION_GRADES,
	"grades",
	"Fetch the grade transcript from the teaching-affairs system.",
	cobra.NoArgs,
	func(ctx context.Context, g *globals, _ []string) models.Envelope {
		return g.service.FetchGrades(ctx, fetchCookie)
	},
)

var booksCmd = fetchCommand(
	OPERATION_BOOKS,
	"books <query>",
	"Search the library catalogue and list the holdings of every result.",
	cobra.ExactArgs(1),
	func(ctx context.Context, g *globals, args []string) models.Envelope {
		return g.service.FetchBooks(ctx, fetchCookie, args[0])
	},
)

func init() {
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(booksCmd)
}
