// Package app scrapes the course timetable and the exam schedule from the
// mobile portal (app.ucas.ac.cn).
package app

import (
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
)

const (
	report_scraper_courses = "scraper.courses"
	report_scraper_exams   = "scraper.exams"
)

type Scraper struct {
	client *session.Client
	tel    telemetry.API
}

func NewScraper(client *session.Client, tel telemetry.API) Scraper {
	assert.NotNil(client, "session client")
	assert.NotNil(tel, "telemetry")

	return Scraper{
		client: client,
		tel:    telemetry.NewScopedAPI("app_scraper", tel),
	}
}
