package catalog

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// ImageBaseName derives the local image base name for a record: the code
// with every identifier-unsafe rune replaced by an underscore, or a
// millisecond timestamp when there is no code.
func ImageBaseName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return unsafeChars.ReplaceAllString(code, "_")
}

// ImageExtension extracts the extension from the URL's trailing path
// segment. Stripe file links carry no extension, so "jpg" is the default.
func ImageExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "jpg"
	}
	ext := strings.TrimPrefix(path.Ext(path.Base(u.Path)), ".")
	if ext == "" {
		return "jpg"
	}
	return strings.ToLower(ext)
}
