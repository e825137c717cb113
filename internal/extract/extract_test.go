package extract

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPatternFirst(t *testing.T) {
	p := MustCompile(`id=([a-z0-9]+)`)

	value, ok := p.First(`<a href="?id=ab12">x</a><a href="?id=cd34">`)
	require.True(t, ok)
	require.Equal(t, "ab12", value)

	_, ok = p.First(`nothing here`)
	require.False(t, ok)
}

func TestAllUnique(t *testing.T) {
	p := MustCompile(`href="/front/book/detail\?id=([a-z0-9]+)"`)
	body := `
		<a href="/front/book/detail?id=a1">one</a>
		<a href="/front/book/detail?id=a1">one again</a>
		<a href="/front/book/detail?id=b2">two</a>
		<a href="/front/book/detail?id=A3">upper case is ignored</a>
	`
	require.Equal(t, []string{"a1", "b2"}, p.AllUnique(body))
	require.Empty(t, p.AllUnique(""))
}

func TestFields(t *testing.T) {
	body := `<h4 class="media-heading">Go 程序设计</h4><b>出版社：</b><span>机械工业</span>`
	fields := Fields(body, map[string]Pattern{
		"title":     MustCompile(`<h4 class="media-heading">([^<]*)</h4>`),
		"publisher": MustCompile(`<b>出版社：</b><span>([^<]*)</span>`),
		"isbn":      MustCompile(`<b>ISBN：</b><span>([^<]*)</span>`),
	})

	require.NotNil(t, fields["title"])
	require.Equal(t, "Go 程序设计", *fields["title"])
	require.NotNil(t, fields["publisher"])
	require.Equal(t, "机械工业", *fields["publisher"])
	require.Contains(t, fields, "isbn")
	require.Nil(t, fields["isbn"])
}

func TestInterpolateEscapes(t *testing.T) {
	p, err := Interpolate(`<td>([^<]+)</td><td>%s</td>`, "C++ (高级).")
	require.NoError(t, err)

	value, ok := p.First(`<td>0839X</td><td>C++ (高级).</td>`)
	require.True(t, ok)
	require.Equal(t, "0839X", value)

	// escaped metacharacters must not match arbitrary text
	_, ok = p.First(`<td>0839X</td><td>CCC (高级)!</td>`)
	require.False(t, ok)
}

func TestInterpolateInvalidTemplate(t *testing.T) {
	_, err := Interpolate(`(%s`, "x")
	require.Error(t, err)
}

const tableHtml = `
<html><body>
<table>
	<thead><tr><th>编号</th><th>其他</th></tr></thead>
	<tbody><tr><td>unrelated</td></tr></tbody>
</table>
<table class="table">
	<thead>
		<tr><th> 课程名称 </th><th>英文名称</th><th>分数</th></tr>
	</thead>
	<tbody>
		<tr><td>数值分析</td><td>Numerical
			Analysis</td><td>92</td></tr>
		<tr><td>英语</td><td>English</td></tr>
	</tbody>
</table>
</body></html>`

func TestTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHtml))
	require.NoError(t, err)

	rows, ok := Table(context.Background(), doc, "课程名称", []string{"name", "english", "score"})
	require.True(t, ok)

	expected := []map[string]string{
		{"name": "数值分析", "english": "Numerical Analysis", "score": "92"},
		{"name": "英语", "english": "English", "score": ""},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatal(diff)
	}

	_, ok = Table(context.Background(), doc, "不存在", []string{"name"})
	require.False(t, ok)
}

func TestLooseString(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  LooseString
		expectInt int
	}{
		{name: "string", raw: `"TP312/1"`, expected: "TP312/1"},
		{name: "quoted number", raw: `"3"`, expected: "3", expectInt: 3},
		{name: "number", raw: `3003`, expected: "3003", expectInt: 3003},
		{name: "decimal", raw: `2.5`, expected: "2.5"},
		{name: "null", raw: `null`, expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s LooseString
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &s))
			require.Equal(t, tc.expected, s)
			require.Equal(t, tc.expectInt, s.Int())
		})
	}

	var s LooseString
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
}
