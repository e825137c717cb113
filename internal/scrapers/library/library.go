// Package library searches the library catalogue (lib.ucas.ac.cn) and reads
// the holdings of every result.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"ucassist-backend/internal/components/assert"
	"ucassist-backend/internal/components/session"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/extract"
	"ucassist-backend/internal/models"
)

const (
	report_scraper_books    = "scraper.books"
	report_scraper_holdings = "scraper.holdings"
)

const (
	searchUrl     = "https://lib.ucas.ac.cn/front/book/list?searchValue=%s&searchField=all"
	detailUrl     = "https://lib.ucas.ac.cn/front/book/detail?id=%s"
	shelfStateUrl = "https://lib.ucas.ac.cn/front/book/getShelfState?sourceId=%s"
)

var (
	detailIdPattern = extract.MustCompile(`href="/front/book/detail\?id=([a-z0-9]+)"`)
	sourceIdPattern = extract.MustCompile(`var sourceId="([^"]+)"`)

	bookFieldPatterns = map[string]extract.Pattern{
		"title":     extract.MustCompile(`<h4 class="media-heading">([^<]*)</h4>`),
		"publisher": extract.MustCompile(`<b>出版社：</b><span>([^<]*)</span>`),
		"isbn":      extract.MustCompile(`<b>ISBN：</b><span>([^<]*)</span>`),
		"year":      extract.MustCompile(`<b>出版年：</b><span>([^<]*)</span>`),
		"author":    extract.MustCompile(`<b>作者：</b><span>([^<]*)</span>`),
		"subject":   extract.MustCompile(`<b>学科：</b><span>([^<]*)</span>`),
	}
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
		tel:    telemetry.NewScopedAPI("library_scraper", tel),
	}
}

// escapeComponent escapes like a browser's encodeURIComponent, spaces become
// %20 rather than +.
func escapeComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// Books searches the catalogue for query and fetches the detail page and the
// holdings of every distinct result in order.
func (s Scraper) Books(ctx context.Context, jar session.Jar, query string) ([]models.Book, error) {
	res, err := s.client.Get(ctx, fmt.Sprintf(searchUrl, escapeComponent(query)), jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_books, fmt.Errorf("search: %w", err), query)
		return nil, err
	}

	ids := detailIdPattern.AllUnique(res.String())
	s.tel.ReportDebug(report_scraper_books, "search results", query, len(ids))

	books := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.book(ctx, jar, id)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	s.tel.ReportCount(report_scraper_books, int64(len(books)))

	return books, nil
}

func (s Scraper) book(ctx context.Context, jar session.Jar, id string) (models.Book, error) {
	res, err := s.client.Get(ctx, fmt.Sprintf(detailUrl, escapeComponent(id)), jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_books, fmt.Errorf("detail page: %w", err), id)
		return models.Book{}, err
	}
	page := res.String()

	fields := extract.Fields(page, bookFieldPatterns)
	book := models.Book{
		BookId:      id,
		Title:       fields["title"],
		Author:      fields["author"],
		Publisher:   fields["publisher"],
		PublishYear: fields["year"],
		Isbn:        fields["isbn"],
		Theme:       fields["subject"],
	}

	collections, err := s.holdings(ctx, jar, id, page)
	if err != nil {
		return models.Book{}, err
	}
	return models.NewBook(book, collections), nil
}

type holding struct {
	CallNo1        extract.LooseString `json:"callNo1"`
	Barcode        extract.LooseString `json:"barcode"`
	SubLibrary     extract.LooseString `json:"subLibrary"`
	LocationDetail extract.LooseString `json:"locationDetail"`
	LoanStatus     extract.LooseString `json:"loanStatus"`
}

// holdings returns the copies of the book on the detail page. A missing
// source id or an unreadable holdings list only costs this book its
// collections, a failed request fails the search.
func (s Scraper) holdings(ctx context.Context, jar session.Jar, id, page string) ([]models.BookCollection, error) {
	sourceId, ok := sourceIdPattern.First(page)
	if !ok {
		s.tel.ReportWarning(report_scraper_holdings, fmt.Errorf("source id not found"), id)
		return nil, nil
	}

	res, err := s.client.Get(ctx, fmt.Sprintf(shelfStateUrl, escapeComponent(sourceId)), jar)
	if err != nil {
		s.tel.ReportBroken(report_scraper_holdings, fmt.Errorf("shelf state: %w", err), id)
		return nil, err
	}

	var list []holding
	err = json.Unmarshal(res.Body, &list)
	if err != nil {
		s.tel.ReportWarning(report_scraper_holdings, fmt.Errorf("decode shelf state: %w", err), id)
		return nil, nil
	}

	collections := make([]models.BookCollection, 0, len(list))
	for _, h := range list {
		collections = append(collections, models.BookCollection{
			CallNo:   h.CallNo1.String(),
			Barcode:  h.Barcode.String(),
			Location: h.SubLibrary.String() + h.LocationDetail.String(),
			Status:   h.LoanStatus.String(),
		})
	}
	return collections, nil
}
