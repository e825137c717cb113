package extract

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ucassist/extract")

// Table locates the header cell whose text is headerText, then reads the rows
// of the tbody directly following its thead. Cells are read by position, the
// n-th cell goes under columns[n]. Rows with fewer cells get "" for the
// missing columns. Returns false when the header is not found.
func Table(ctx context.Context, doc *goquery.Document, headerText string, columns []string) ([]map[string]string, bool) {
	_, span := tracer.Start(ctx, "Table")
	defer span.End()

	header := doc.Find("thead tr th").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if len(s.Nodes) == 0 {
			return false
		}
		return CleanText(s.Nodes[0]) == headerText
	}).First()
	if header.Length() == 0 {
		span.AddEvent("header not found", trace.WithAttributes(attribute.String("header", headerText)))
		return nil, false
	}

	body := header.Closest("thead").NextFiltered("tbody")

	var rows []map[string]string
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		row := make(map[string]string, len(columns))
		for i, name := range columns {
			if i >= len(cells.Nodes) {
				row[name] = ""
				continue
			}
			row[name] = CleanText(cells.Nodes[i])
		}
		rows = append(rows, row)
	})
	span.SetAttributes(attribute.Int("rows", len(rows)))

	return rows, true
}
