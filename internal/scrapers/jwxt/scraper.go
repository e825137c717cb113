// Package jwxt scrapes the teaching-affairs system (xkcts.ucas.ac.cn:8443).
package jwxt

import (
	"bytes"
	"context"
	"fmt"
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/extract"
	"ucassist-backend/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_scraper_grades     = "scraper.grades"
	report_scraper_course_ids = "scraper.course-ids"
)

const (
	mainUrl           = "https://xkcts.ucas.ac.cn:8443/main"
	transcriptUrl     = "https://xkcts.ucas.ac.cn:8443/score/yjs/all"
	selectedCourseUrl = "https://xkcts.ucas.ac.cn:8443/courseManage/selectedCourse"
)

// transcriptColumns is the column order of the transcript table, starting
// from the "课程名称" header.
var transcriptColumns = []string{
	"courseName",
	"englishName",
	"score",
	"credit",
	"type",
	"semester",
	"assessmentStatus",
}

// courseIdTemplate matches the course plan cell holding the id, directly
// followed by the course time cell holding the course name.
const courseIdTemplate = `<td><a href="/course/courseplan/\d+" target="_blank">([^<]+)</a></td>\s*<td><a href="/course/coursetime/\d+" target="_blank">%s</a></td>`

type Scraper struct {
	client *session.Client
	tel    telemetry.API
}

func NewScraper(client *session.Client, tel telemetry.API) Scraper {
	assert.NotNil(client, "session client")
	assert.NotNil(tel, "telemetry")

	return Scraper{
		client: client,
		tel:    telemetry.NewScopedAPI("jwxt_scraper", tel),
	}
}

// Grades returns the full transcript. The main page has to be visited first
// or the other pages redirect back to the login.
func (s Scraper) Grades(ctx context.Context, jar session.Jar) ([]models.Grade, error) {
	_, err := s.client.Get(ctx, mainUrl, jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_grades, fmt.Errorf("prime main page: %w", err))
		return nil, err
	}

	res, err := s.client.Get(ctx, transcriptUrl, jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_grades, fmt.Errorf("fetch transcript: %w", err))
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body))
	if err != nil {
		s.tel.ReportBroken(report_scraper_grades, fmt.Errorf("parse transcript: %w", err))
		return nil, err
	}
	rows, ok := extract.Table(ctx, doc, "课程名称", transcriptColumns)
	if !ok {
		s.tel.ReportWarning(report_scraper_grades, fmt.Errorf("transcript table not found"))
	}

	res, err = s.client.Get(ctx, selectedCourseUrl, jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_grades, fmt.Errorf("fetch selected courses: %w", err))
		return nil, err
	}
	selected := res.String()

	grades := make([]models.Grade, 0, len(rows))
	for _, row := range rows {
		name := row["courseName"]
		grades = append(grades, models.Grade{
			CourseId:   s.courseId(selected, name),
			CourseName: name,
			TotalScore: row["score"],
			Gpa:        Gpa(row["score"]),
			Credit:     row["credit"],
			Type:       CourseType(row["type"]),
			Semester:   row["semester"],
		})
	}
	s.tel.ReportCount(report_scraper_grades, int64(len(grades)))

	return grades, nil
}

// courseId looks the course name up on the selected courses page, "" when it
// is not listed.
func (s Scraper) courseId(page, courseName string) string {
	p, err := extract.Interpolate(courseIdTemplate, courseName)
	if err != nil {
		s.tel.ReportBroken(report_scraper_course_ids, err, courseName)
		return ""
	}
	id, ok := p.First(page)
	if !ok {
		s.tel.ReportDebug(report_scraper_course_ids, "course id not found", courseName)
		return ""
	}
	return id
}

func CourseType(degree string) string {
	if degree == "否" {
		return models.GRADE_TYPE_NON_DEGREE
	}
	return models.GRADE_TYPE_DEGREE
}
