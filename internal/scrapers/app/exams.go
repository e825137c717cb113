package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/extract"
	"ucassist-backend/internal/models"
)

const examUrl = "https://app.ucas.ac.cn/exam/wap/default/info?kcmc="

type examEntry struct {
	CourseName extract.LooseString `json:"course_name"`
	ExameType  extract.LooseString `json:"exame_type"`
	Location   extract.LooseString `json:"location"`
	StartTime  extract.LooseString `json:"exame_start_time"`
	EndTime    extract.LooseString `json:"exame_end_time"`
}

type examInfo struct {
	D json.RawMessage `json:"d"`
}

// Exams fetches the exam schedule in a single request.
func (s Scraper) Exams(ctx context.Context, jar session.Jar) ([]models.Exam, error) {
	res, err := s.client.Get(ctx, examUrl, jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_exams, fmt.Errorf("fetch: %w", err))
		return nil, err
	}

	var info examInfo
	err = json.Unmarshal(res.Body, &info)
	if err != nil {
		s.tel.ReportBroken(report_scraper_exams, fmt.Errorf("decode: %w", err))
		return nil, fmt.Errorf("decode exams: %w", err)
	}
	entries, err := decodeExamEntries(info.D)
	if err != nil {
		s.tel.ReportBroken(report_scraper_exams, fmt.Errorf("decode entries: %w", err))
		return nil, fmt.Errorf("decode exam entries: %w", err)
	}

	exams := make([]models.Exam, 0, len(entries))
	for _, e := range entries {
		exams = append(exams, models.Exam{
			CourseName: e.CourseName.String(),
			Method:     e.ExameType.String(),
			Location:   e.Location.String(),
			Time:       fmt.Sprintf("%s - %s", e.StartTime, e.EndTime),
		})
	}
	s.tel.ReportCount(report_scraper_exams, int64(len(exams)))
	return exams, nil
}

// decodeExamEntries reads d, which is an object keyed by arbitrary strings or
// an empty array when there are no exams. Object entries are ordered the way
// the portal's javascript sees them: integer keys first in ascending order,
// then the other keys in the order they appear.
func decodeExamEntries(raw json.RawMessage) ([]examEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []examEntry
		err := json.Unmarshal(raw, &list)
		return list, err
	}

	type keyed struct {
		key   string
		entry examEntry
	}
	var entries []keyed
	positions := make(map[string]int)

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var entry examEntry
		err = dec.Decode(&entry)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		// a repeated key keeps its first position and takes the last value
		if i, seen := positions[key]; seen {
			entries[i].entry = entry
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, keyed{key: key, entry: entry})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, aIsIndex := arrayIndex(entries[i].key)
		b, bIsIndex := arrayIndex(entries[j].key)
		if aIsIndex && bIsIndex {
			return a < b
		}
		return aIsIndex && !bIsIndex
	})

	out := make([]examEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.entry)
	}
	return out, nil
}

// arrayIndex reports whether key is a canonical non-negative integer, "07" is
// not one.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, false
	}
	return n, strconv.FormatUint(n, 10) == key
}
