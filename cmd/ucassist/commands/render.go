package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"ucassist-backend/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printEnvelope(w io.Writer, env models.Envelope) error {
	out, err := env.Marshal()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

// decodeSnapshot turns the raw data of a stored snapshot back into the
// records of its operation.
func decodeSnapshot(operation string, data json.RawMessage) (any, error) {
	var out any
	switch operation {
	case OPERATION_COURSES:
		out = &[]models.Course{}
	case OPERATION_EXAMS:
		out = &[]models.Exam{}
	case OPERATION_GRADES:
		out = &[]models.Grade{}
	case OPERATION_BOOKS:
		out = &[]models.Book{}
	default:
		return nil, fmt.Errorf("unknown operation %q", operation)
	}
	err := json.Unmarshal(data, out)
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", operation, err)
	}
	switch out := out.(type) {
	case *[]models.Course:
		return *out, nil
	case *[]models.Exam:
		return *out, nil
	case *[]models.Grade:
		return *out, nil
	default:
		return *out.(*[]models.Book), nil
	}
}

func renderTable(w io.Writer, data any) error {
	t := newTable(w)
	switch records := data.(type) {
	case []models.Course:
		t.AppendHeader(table.Row{"Id", "Name", "Teacher", "Location", "Weekday", "Periods", "Time", "Weeks", "Credit"})
		for _, c := range records {
			t.AppendRow(table.Row{
				c.CourseId,
				c.CourseName,
				c.Teacher,
				c.Location,
				c.Weekday,
				joinInts(c.PeriodList),
				fmt.Sprintf("%s-%s", c.StartTime, c.EndTime),
				joinInts(c.Weeks),
				c.Credit,
			})
		}
	case []models.Exam:
		t.AppendHeader(table.Row{"Name", "Method", "Location", "Time"})
		for _, e := range records {
			t.AppendRow(table.Row{e.CourseName, e.Method, e.Location, e.Time})
		}
	case []models.Grade:
		t.AppendHeader(table.Row{"Id", "Name", "Score", "Gpa", "Credit", "Type", "Semester"})
		for _, g := range records {
			t.AppendRow(table.Row{g.CourseId, g.CourseName, g.TotalScore, g.Gpa, g.Credit, g.Type, g.Semester})
		}
	case []models.Book:
		t.AppendHeader(table.Row{"Id", "Title", "Author", "Publisher", "Year", "Free", "Copies"})
		for _, b := range records {
			t.AppendRow(table.Row{
				b.BookId,
				orDash(b.Title),
				orDash(b.Author),
				orDash(b.Publisher),
				orDash(b.PublishYear),
				b.FreeCount,
				b.CollectionCount,
			})
		}
	default:
		return fmt.Errorf("cannot render %T as a table", data)
	}
	t.Render()
	return nil
}
