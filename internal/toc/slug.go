package toc

import (
	"strconv"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a title has no letter to start a slug with.
const fallbackSlug = "section"

// Slugify turns a heading title into an ASCII fragment id.
//
// Accents are folded (é -> e), other non-ASCII letters are dropped, and the
// result is lowercase. Characters before the first letter are skipped.
// Whitespace and punctuation collapse into a single '-', while '_', '.' and
// '-' are kept. A trailing '-' or '.' is trimmed.
func Slugify(title string) string {
	buf := make([]byte, 0, len(title))
	hasLetter := false
	prevSep := false

	for _, r := range norm.NFD.String(title) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r):
			if r >= unicode.MaxASCII {
				continue
			}
			buf = append(buf, byte(unicode.ToLower(r)))
			hasLetter = true
			prevSep = false
		case !hasLetter:
			continue
		case r == '_' || r == '-' || r == '.':
			if prevSep {
				buf = buf[:len(buf)-1]
			}
			buf = append(buf, byte(r))
			prevSep = false
		case r >= '0' && r <= '9':
			buf = append(buf, byte(r))
			prevSep = false
		case !prevSep && (unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)):
			buf = append(buf, '-')
			prevSep = true
		}
	}

	for len(buf) > 0 && (buf[len(buf)-1] == '-' || buf[len(buf)-1] == '.') {
		buf = buf[:len(buf)-1]
	}
	if len(buf) == 0 {
		return fallbackSlug
	}
	return string(buf)
}

// Slugger hands out unique anchors for one document. Repeated slugs get a
// numeric suffix in order of appearance: "intro", "intro-1", "intro-2".
// A Slugger is not safe for concurrent use.
type Slugger struct {
	used map[string]bool
	next map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{
		used: make(map[string]bool),
		next: make(map[string]int),
	}
}

// Slug returns the unique anchor for title.
func (s *Slugger) Slug(title string) string {
	base := Slugify(title)
	slug := base
	for s.used[slug] {
		s.next[base]++
		slug = base + "-" + strconv.Itoa(s.next[base])
	}
	s.used[slug] = true
	return slug
}
