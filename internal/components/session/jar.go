package session

// Jar is the opaque cookie string handed between logins and scrapers. It is
// append-only: cookies are joined with "; " in the order they were received
// and are never parsed, replaced or deduplicated.
type Jar string

// Append returns the jar with cookie added to the end. An empty cookie leaves
// the jar unchanged and an empty jar becomes just the cookie.
func (j Jar) Append(cookie string) Jar {
	if cookie == "" {
		return j
	}
	if j == "" {
		return Jar(cookie)
	}
	return j + "; " + Jar(cookie)
}

func (j Jar) Empty() bool {
	return j == ""
}

func (j Jar) String() string {
	return string(j)
}
