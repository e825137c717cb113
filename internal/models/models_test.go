package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBookCounts(t *testing.T) {
	book := NewBook(Book{BookId: "a1"}, []BookCollection{
		{Barcode: "1", Status: BOOK_STATUS_ON_SHELF},
		{Barcode: "2", Status: "借出"},
		{Barcode: "3", Status: BOOK_STATUS_ON_SHELF},
	})
	require.Equal(t, 3, book.CollectionCount)
	require.Equal(t, 2, book.FreeCount)

	empty := NewBook(Book{BookId: "b2"}, nil)
	require.Equal(t, 0, empty.CollectionCount)
	require.Equal(t, 0, empty.FreeCount)
	require.NotNil(t, empty.Collections)
}

func TestEnvelopeMarshal(t *testing.T) {
	out, err := Success([]Exam{{CourseName: "数学", Time: "a - b"}}).Marshal()
	require.NoError(t, err)
	require.Equal(t, `{
    "code": 1,
    "data": [
        {
            "courseId": "",
            "courseName": "数学",
            "method": "",
            "location": "",
            "time": "a - b",
            "campus": null,
            "seat": null
        }
    ]
}`, string(out))

	out, err = Failure().Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"code": -1, "data": ""}`, string(out))
}

func TestBookNullFields(t *testing.T) {
	title := "标题"
	out, err := json.Marshal(NewBook(Book{BookId: "x", Title: &title}, nil))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"bookId": "x",
		"title": "标题",
		"author": null,
		"publisher": null,
		"publishYear": null,
		"isbn": null,
		"theme": null,
		"collectionCount": 0,
		"freeCount": 0,
		"collections": []
	}`, string(out))
}
