// Package models holds the records produced by the scrapers and the result
// envelope every operation returns.
package models

type Course struct {
	CourseId   string `json:"courseId"`
	CourseName string `json:"courseName"`
	Location   string `json:"location"`
	PeriodList []int  `json:"periodList"`
	Weekday    int    `json:"weekday"`
	Teacher    string `json:"teacher"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Weeks      []int  `json:"weeks"`
	Credit     string `json:"credit"`
	Category   string `json:"category"`
	ExamType   string `json:"examType"`
}

// Exam always has a nil Campus and Seat, the portal does not report them.
type Exam struct {
	CourseId   string  `json:"courseId"`
	CourseName string  `json:"courseName"`
	Method     string  `json:"method"`
	Location   string  `json:"location"`
	Time       string  `json:"time"`
	Campus     *string `json:"campus"`
	Seat       *string `json:"seat"`
}

const (
	GRADE_TYPE_DEGREE     = "学位课"
	GRADE_TYPE_NON_DEGREE = "非学位课"
)

type Grade struct {
	CourseId   string `json:"courseId"`
	CourseName string `json:"courseName"`
	TotalScore string `json:"totalScore"`
	// Gpa is empty when the score maps to no grade point.
	Gpa      string `json:"gpa"`
	Credit   string `json:"credit"`
	Type     string `json:"type"`
	Semester string `json:"semester"`
}

type BookCollection struct {
	CallNo   string `json:"callNo"`
	Barcode  string `json:"barcode"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// BOOK_STATUS_ON_SHELF is the loan status of a copy that can be borrowed.
const BOOK_STATUS_ON_SHELF = "在架上"

type Book struct {
	BookId          string           `json:"bookId"`
	Title           *string          `json:"title"`
	Author          *string          `json:"author"`
	Publisher       *string          `json:"publisher"`
	PublishYear     *string          `json:"publishYear"`
	Isbn            *string          `json:"isbn"`
	Theme           *string          `json:"theme"`
	CollectionCount int              `json:"collectionCount"`
	FreeCount       int              `json:"freeCount"`
	Collections     []BookCollection `json:"collections"`
}

// NewBook fills in the counts derived from collections.
func NewBook(book Book, collections []BookCollection) Book {
	if collections == nil {
		collections = []BookCollection{}
	}
	book.Collections = collections
	book.CollectionCount = len(collections)
	book.FreeCount = 0
	for _, c := range collections {
		if c.Status == BOOK_STATUS_ON_SHELF {
			book.FreeCount++
		}
	}
	return book
}
