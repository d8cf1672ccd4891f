package fs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FilenameFor derives the cache filename of a page from the last non-empty
// segment of its URL path, e.g. .../punctuation/ → punctuation.md. The site
// root maps to homepage.md. URLs that are not absolute get a timestamped
// name. Different URLs can map to the same name.
func FilenameFor(rawURL string) string {
	return filenameFor(rawURL, time.Now())
}

func filenameFor(rawURL string, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Sprintf("page-%d.md", now.UnixMilli())
	}

	var last string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			last = seg
		}
	}
	if last == "" {
		return "homepage.md"
	}

	name := strings.ToLower(strings.Trim(nonAlphanumeric.ReplaceAllString(last, "-"), "-"))
	if name == "" {
		return "page.md"
	}
	return name + ".md"
}

// isPlainName reports whether name can be used as a file inside the
// sections directory without escaping it.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
