package app

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidPeriodRange means the first or last period of a course lies
// outside of 1..12 or they are out of order.
var ErrInvalidPeriodRange = errors.New("invalid period range")

// DerivedFieldError is returned when a field computed from scraped data
// cannot be computed. The record is still returned without that field.
type DerivedFieldError struct {
	CourseId string
	Field    string
	Err      error
}

func (e *DerivedFieldError) Error() string {
	return fmt.Sprintf("course %s: derive %s: %s", e.CourseId, e.Field, e.Err)
}

func (e *DerivedFieldError) Unwrap() error {
	return e.Err
}

type classTime struct {
	start string
	end   string
}

// classTimes holds the wall clock times of periods 1 to 12.
var classTimes = [12]classTime{
	{start: "8:30", end: "9:20"},
	{start: "9:20", end: "10:10"},
	{start: "10:30", end: "11:20"},
	{start: "11:20", end: "12:10"},
	{start: "13:30", end: "14:20"},
	{start: "14:20", end: "15:10"},
	{start: "15:30", end: "16:20"},
	{start: "16:20", end: "17:10"},
	{start: "18:10", end: "19:00"},
	{start: "19:00", end: "19:50"},
	{start: "20:10", end: "21:00"},
	{start: "21:00", end: "21:50"},
}

// ParsePeriods splits a lesson string into two digit periods, "091011" is
// [9, 10, 11]. Odd lengths and non-digits are a miss.
func ParsePeriods(lessons string) ([]int, bool) {
	if len(lessons)%2 != 0 {
		return nil, false
	}
	periods := make([]int, 0, len(lessons)/2)
	for i := 0; i < len(lessons); i += 2 {
		chunk := lessons[i : i+2]
		if chunk[0] < '0' || chunk[0] > '9' || chunk[1] < '0' || chunk[1] > '9' {
			return nil, false
		}
		n, err := strconv.Atoi(chunk)
		if err != nil {
			return nil, false
		}
		periods = append(periods, n)
	}
	return periods, true
}

// ClassTimes returns the start time of the first period and the end time of
// the last one.
func ClassTimes(periods []int) (start, end string, err error) {
	if len(periods) == 0 {
		return "", "", fmt.Errorf("%w: no periods", ErrInvalidPeriodRange)
	}
	first := periods[0]
	last := periods[len(periods)-1]
	if first < 1 || first > 12 || last < 1 || last > 12 || first > last {
		return "", "", fmt.Errorf("%w: %d-%d", ErrInvalidPeriodRange, first, last)
	}
	return classTimes[first-1].start, classTimes[last-1].end, nil
}
