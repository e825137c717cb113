package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/extract"
	"ucassist-backend/internal/models"
)

const (
	timetableIndexUrl = "https://app.ucas.ac.cn/timetable/wap/default/get-index"
	timetableDataUrl  = "https://app.ucas.ac.cn/timetable/wap/default/get-data"

	semesterWeeks = 16
)

type timetableIndex struct {
	D struct {
		Params struct {
			Year      extract.LooseString `json:"year"`
			Term      extract.LooseString `json:"term"`
			Startday  extract.LooseString `json:"startday"`
			Countweek extract.LooseString `json:"countweek"`
			Week      extract.LooseString `json:"week"`
		} `json:"params"`
	} `json:"d"`
}

type timetableClass struct {
	CourseId   extract.LooseString `json:"course_id"`
	CourseName extract.LooseString `json:"course_name"`
	Location   extract.LooseString `json:"location"`
	Lessons    extract.LooseString `json:"lessons"`
	Weekday    extract.LooseString `json:"weekday"`
	Teacher    extract.LooseString `json:"teacher"`
	Credit     extract.LooseString `json:"credit"`
	CourseType extract.LooseString `json:"course_type"`
	Khfs       extract.LooseString `json:"khfs"`
}

type timetableData struct {
	D struct {
		Classes []timetableClass `json:"classes"`
	} `json:"d"`
}

// Courses fetches every week of the current term one after another and
// merges the classes by course id. Courses keep the order they were first
// seen in.
func (s Scraper) Courses(ctx context.Context, jar session.Jar) ([]models.Course, error) {
	res, err := s.client.Get(ctx, timetableIndexUrl, jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_courses, fmt.Errorf("fetch index: %w", err))
		return nil, err
	}
	var index timetableIndex
	err = json.Unmarshal(res.Body, &index)
	if err != nil {
		s.tel.ReportBroken(report_scraper_courses, fmt.Errorf("decode index: %w", err))
		return nil, fmt.Errorf("decode timetable index: %w", err)
	}
	params := index.D.Params
	s.tel.ReportDebug(report_scraper_courses, "index", params.Year, params.Term, params.Week)

	var courses []models.Course
	positions := make(map[string]int)

	for week := 1; week <= semesterWeeks; week++ {
		res, err := s.client.Post(ctx, timetableDataUrl, jar, url.Values{
			"year": {params.Year.String()},
			"term": {params.Term.String()},
			"week": {strconv.Itoa(week)},
			"type": {"1"},
		})
		if err != nil {
			s.tel.ReportBroken(report_scraper_courses, fmt.Errorf("fetch week %d: %w", week, err))
			return nil, err
		}
		var data timetableData
		err = json.Unmarshal(res.Body, &data)
		if err != nil {
			s.tel.ReportBroken(report_scraper_courses, fmt.Errorf("decode week %d: %w", week, err))
			return nil, fmt.Errorf("decode week %d: %w", week, err)
		}

		for _, class := range data.D.Classes {
			id := class.CourseId.String()
			if i, seen := positions[id]; seen {
				courses[i].Weeks = append(courses[i].Weeks, week)
				continue
			}

			course, err := courseFromClass(class, week)
			var derivedErr *DerivedFieldError
			if errors.As(err, &derivedErr) {
				s.tel.ReportWarning(report_scraper_courses, derivedErr)
			}

			positions[id] = len(courses)
			courses = append(courses, course)
		}
	}

	for i := range courses {
		courses[i].Weeks = uniqueWeeks(courses[i].Weeks)
	}
	s.tel.ReportCount(report_scraper_courses, int64(len(courses)))

	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// courseFromClass always returns a course, the error only reports a derived
// field that had to be left empty.
func courseFromClass(class timetableClass, week int) (models.Course, error) {
	course := models.Course{
		CourseId:   class.CourseId.String(),
		CourseName: class.CourseName.String(),
		Location:   class.Location.String(),
		PeriodList: []int{},
		Weekday:    class.Weekday.Int(),
		Teacher:    class.Teacher.String(),
		Weeks:      []int{week},
		Credit:     class.Credit.String(),
		Category:   class.CourseType.String(),
		ExamType:   class.Khfs.String(),
	}

	periods, ok := ParsePeriods(class.Lessons.String())
	if !ok || len(periods) == 0 {
		return course, nil
	}
	course.PeriodList = periods

	start, end, err := ClassTimes(periods)
	if err != nil {
		return course, &DerivedFieldError{
			CourseId: course.CourseId,
			Field:    "class times",
			Err:      err,
		}
	}
	course.StartTime = start
	course.EndTime = end
	return course, nil
}

func uniqueWeeks(weeks []int) []int {
	seen := make(map[int]struct{}, len(weeks))
	out := make([]int, 0, len(weeks))
	for _, w := range weeks {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
