package jwxt

// categoricalGpa maps the five level grading scale. Pass/fail grades carry no
// grade point.
var categoricalGpa = map[string]string{
	"优秀":   "4",
	"良好":   "3.4",
	"及格":   "2",
	"不及格":  "0",
	"通过":   "",
	"不通过":  "",
	"补考合格": "1",
	"":     "",
}

type scoreRange struct {
	min int
	max int
	gpa string
}

// scoreRanges are closed intervals, a score below 60 maps to nothing.
var scoreRanges = []scoreRange{
	{min: 90, max: 100, gpa: "4"},
	{min: 87, max: 89, gpa: "3.9"},
	{min: 85, max: 86, gpa: "3.8"},
	{min: 83, max: 84, gpa: "3.7"},
	{min: 82, max: 82, gpa: "3.6"},
	{min: 80, max: 81, gpa: "3.5"},
	{min: 78, max: 79, gpa: "3.4"},
	{min: 76, max: 77, gpa: "3.3"},
	{min: 75, max: 75, gpa: "3.2"},
	{min: 74, max: 74, gpa: "3.1"},
	{min: 73, max: 73, gpa: "3.0"},
	{min: 72, max: 72, gpa: "2.9"},
	{min: 71, max: 71, gpa: "2.8"},
	{min: 69, max: 70, gpa: "2.7"},
	{min: 68, max: 68, gpa: "2.6"},
	{min: 67, max: 67, gpa: "2.5"},
	{min: 66, max: 66, gpa: "2.4"},
	{min: 64, max: 65, gpa: "2.3"},
	{min: 63, max: 63, gpa: "2.2"},
	{min: 62, max: 62, gpa: "2.1"},
	{min: 61, max: 61, gpa: "1.8"},
	{min: 60, max: 60, gpa: "1.6"},
}

// Gpa maps a raw score to a grade point. Categorical grades are checked
// first, then the leading integer of the score ("85.5" counts as 85).
func Gpa(score string) string {
	if gpa, ok := categoricalGpa[score]; ok {
		return gpa
	}
	n, ok := leadingInt(score)
	if !ok {
		return ""
	}
	for _, r := range scoreRanges {
		if n >= r.min && n <= r.max {
			return r.gpa
		}
	}
	return ""
}

// leadingInt parses the integer at the start of s after leading whitespace.
func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n > 1000 {
			// large enough to fall outside every range
			i++
			continue
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}
