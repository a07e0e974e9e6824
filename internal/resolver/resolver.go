package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// VideoID is an opaque YouTube video identifier. Resolve never returns an
// empty VideoID together with a nil error.
type VideoID string

// MaxPasses caps the resolution depth: the first pass plus at most one
// re-resolution after a mobile-domain rewrite. Input that still carries the
// mobile marker after one rewrite (e.g. "m.m.youtube.com") fails.
const MaxPasses = 2

const (
	shortHostMarker  = "youtu.be"
	longHostMarker   = "youtube.com"
	mobileHostMarker = "m.youtube.com"
	timestampMarker  = "&t="
)

// ErrUnresolvable is the single failure outcome of Resolve. The wrapping error
// carries a reason for logs; callers should only test it with errors.Is.
var ErrUnresolvable = errors.New("could not resolve video id")

func unresolvable(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnresolvable, reason)
}

// Resolve extracts the video identifier from a YouTube URL.
//
// Supported shapes:
//   - youtu.be/ID
//   - youtube.com/watch?v=ID
//   - youtube.com/shorts/ID, /embed/ID, /v/ID, /live/ID
//   - m.youtube.com variants, rewritten to youtube.com and resolved again
//
// The scheme is optional. Every failure, including malformed URLs, is
// reported as ErrUnresolvable.
func Resolve(raw string) (VideoID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", unresolvable("empty input")
	}

	for pass := 0; pass < MaxPasses; pass++ {
		id, next, err := resolveOnce(s)
		if err != nil {
			return "", err
		}
		if next == "" {
			return id, nil
		}
		s = next
	}
	return "", unresolvable("mobile rewrite limit reached")
}

// ResolvePtr is Resolve for optional input; nil is treated as empty.
func ResolvePtr(raw *string) (VideoID, error) {
	if raw == nil {
		return "", unresolvable("no input")
	}
	return Resolve(*raw)
}

// resolveOnce runs a single pass over s. A non-empty next asks the caller to
// resolve next instead of s.
func resolveOnce(s string) (id VideoID, next string, err error) {
	switch {
	case strings.Contains(s, shortHostMarker):
		return resolveShortLink(s)
	case strings.Contains(s, longHostMarker):
		return resolveLongForm(s)
	default:
		return "", "", unresolvable("not a youtube url")
	}
}

func resolveShortLink(s string) (VideoID, string, error) {
	u, err := parse(s)
	if err != nil {
		return "", "", err
	}
	id := strings.TrimPrefix(rawPath(u), "/")
	if id == "" {
		return "", "", unresolvable("short link without id")
	}
	return VideoID(id), "", nil
}

func resolveLongForm(s string) (VideoID, string, error) {
	u, err := parse(s)
	if err != nil {
		return "", "", err
	}
	path := rawPath(u)

	switch {
	case path == "/watch":
		return watchParam(u.RawQuery)
	case strings.HasPrefix(path, "/shorts/"),
		strings.HasPrefix(path, "/embed/"),
		strings.HasPrefix(path, "/v/"):
		return lastSegment(path)
	}

	// Only unmatched paths reach the timestamp and mobile handling. The
	// truncation affects the rewritten string, not the path parsed above.
	if i := strings.Index(s, timestampMarker); i != -1 {
		s = s[:i]
	}
	if strings.Contains(s, mobileHostMarker) {
		return "", strings.ReplaceAll(s, mobileHostMarker, longHostMarker), nil
	}
	if strings.HasPrefix(path, "/live/") {
		return lastSegment(path)
	}
	return "", "", unresolvable("unsupported path " + path)
}

// watchParam returns the first v value of rawQuery. Pairs are split on "&"
// only, so ";" stays part of a value. Malformed pairs other than v are
// skipped; a malformed or blank first v fails.
func watchParam(rawQuery string) (VideoID, string, error) {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err != nil || k != "v" {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return "", "", unresolvable("malformed v parameter: " + err.Error())
		}
		if v == "" {
			break
		}
		return VideoID(v), "", nil
	}
	return "", "", unresolvable("watch url without v parameter")
}

func lastSegment(path string) (VideoID, string, error) {
	parts := strings.Split(path, "/")
	id := parts[len(parts)-1]
	if id == "" {
		return "", "", unresolvable("empty path segment in " + path)
	}
	return VideoID(id), "", nil
}

// parse parses s as a URL, assuming https when no scheme is given so that
// bare hosts such as "youtu.be/ID" keep their host out of the path.
func parse(s string) (*url.URL, error) {
	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !hasScheme(s):
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, unresolvable("malformed url: " + err.Error())
	}
	return u, nil
}

// hasScheme reports whether s starts with "scheme://". A "://" later in the
// string, such as inside a query parameter, does not count.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, c := range s[:i] {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case j > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// rawPath returns the path as written in the input, percent escapes intact.
// url.Parse has already rejected invalid escapes.
func rawPath(u *url.URL) string {
	if u.RawPath != "" {
		return u.RawPath
	}
	return u.Path
}
