package extract

import (
	"fmt"
	"regexp"
)

// Pattern extracts the first capture group of a regular expression.
type Pattern struct {
	re *regexp.Regexp
}

// MustCompile panics if expr does not compile, it is meant for package level
// pattern tables.
func MustCompile(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

// Interpolate builds a pattern from a template containing %s verbs. Every
// value is escaped with regexp.QuoteMeta before it is embedded.
func Interpolate(template string, values ...string) (Pattern, error) {
	escaped := make([]any, len(values))
	for i, v := range values {
		escaped[i] = regexp.QuoteMeta(v)
	}
	re, err := regexp.Compile(fmt.Sprintf(template, escaped...))
	if err != nil {
		return Pattern{}, fmt.Errorf("interpolate pattern: %w", err)
	}
	return Pattern{re: re}, nil
}

func (p Pattern) String() string {
	return p.re.String()
}

// First returns the first capture group of the leftmost match.
func (p Pattern) First(body string) (string, bool) {
	groups := p.re.FindStringSubmatch(body)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// All returns the first capture group of every match in order.
func (p Pattern) All(body string) []string {
	matches := p.re.FindAllStringSubmatch(body, -1)
	out := make([]string, 0, len(matches))
	for _, groups := range matches {
		if len(groups) < 2 {
			continue
		}
		out = append(out, groups[1])
	}
	return out
}

// AllUnique is All with duplicates removed, keeping first-seen order.
func (p Pattern) AllUnique(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range p.All(body) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Fields resolves every pattern independently, a miss becomes nil.
func Fields(body string, fields map[string]Pattern) map[string]*string {
	out := make(map[string]*string, len(fields))
	for name, p := range fields {
		value, ok := p.First(body)
		if !ok {
			out[name] = nil
			continue
		}
		out[name] = &value
	}
	return out
}
