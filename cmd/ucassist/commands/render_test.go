package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"ucassist-backend/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestRenderTable(t *testing.T) {
	testCases := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name: "courses",
			data: []models.Course{{
				CourseId:   "091M4002H",
				CourseName: "计算机体系结构",
				PeriodList: []int{3, 4},
				Weekday:    2,
				StartTime:  "09:45",
				EndTime:    "11:25",
				Weeks:      []int{1, 2, 3},
			}},
			contains: []string{"091M4002H", "3,4", "09:45-11:25", "1,2,3"},
		},
		{
			name: "grades",
			data: []models.Grade{{
				CourseId:   "091M4002H",
				CourseName: "计算机体系结构",
				TotalScore: "92",
				Gpa:        "4.0",
				Type:       models.GRADE_TYPE_DEGREE,
			}},
			contains: []string{"92", "4.0", models.GRADE_TYPE_DEGREE},
		},
		{
			name: "books with missing fields",
			data: []models.Book{models.NewBook(models.Book{
				BookId: "b1",
				Title:  ptr("深入理解计算机系统"),
			}, []models.BookCollection{{Status: models.BOOK_STATUS_ON_SHELF}})},
			contains: []string{"b1", "深入理解计算机系统", "-"},
		},
		{
			name:     "exams",
			data:     []models.Exam{{CourseName: "算法设计", Method: "闭卷", Location: "教一楼", Time: "2024-01-10"}},
			contains: []string{"算法设计", "闭卷", "教一楼"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := renderTable(&buf, test.data)
			require.NoError(t, err)
			for _, s := range test.contains {
				require.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRenderTableUnknown(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, "cookie=1")
	require.Error(t, err)
	require.Empty(t, buf.String())
}

func TestPrintEnvelope(t *testing.T) {
	var buf bytes.Buffer
	err := printEnvelope(&buf, models.Failure())
	require.NoError(t, err)
	require.Equal(t, "{\n    \"code\": -1,\n    \"data\": \"\"\n}\n", buf.String())
}

func TestDecodeSnapshot(t *testing.T) {
	grades := []models.Grade{{CourseId: "a", CourseName: "b", TotalScore: "85", Gpa: "3.6"}}
	raw, err := json.Marshal(grades)
	require.NoError(t, err)

	decoded, err := decodeSnapshot(OPERATION_GRADES, raw)
	require.NoError(t, err)
	if diff := cmp.Diff(grades, decoded); diff != "" {
		t.Fatal(diff)
	}

	_, err = decodeSnapshot("cookies", raw)
	require.Error(t, err)

	_, err = decodeSnapshot(OPERATION_COURSES, []byte("{"))
	require.True(t, strings.Contains(err.Error(), "courses"))
}

func TestParseSystem(t *testing.T) {
	system, err := parseSystem("jwxt")
	require.NoError(t, err)
	require.EqualValues(t, "jwxt", system)

	_, err = parseSystem("moodle")
	require.Error(t, err)
}
