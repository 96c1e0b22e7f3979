package alphabetize

import (
	"cmp"
	"slices"
	"strings"
)

// Bucket is the primary grouping of import statements.
type Bucket int

const (
	BucketThirdParty  Bucket = iota // absolute, not configured as first-party
	BucketApplication               // absolute, configured as first-party
	BucketRelative                  // one or more leading dots
)

// Config holds the caller-supplied settings. It is read-only during
// analysis and may be shared between goroutines.
type Config struct {
	// AppNames are the first-party package names. An entry matches a path
	// equal to it or starting with it followed by a dot.
	AppNames []string
}

// IsApplication reports whether the absolute dotted path belongs to a
// configured first-party package.
func (c Config) IsApplication(path string) bool {
	for _, name := range c.AppNames {
		if path == name || strings.HasPrefix(path, name+".") {
			return true
		}
	}
	return false
}

// Bucket classifies a record.
func (c Config) Bucket(r ImportRecord) Bucket {
	switch {
	case r.Kind == KindFrom && r.Level > 0:
		return BucketRelative
	case c.IsApplication(r.Path()):
		return BucketApplication
	default:
		return BucketThirdParty
	}
}

// Compare orders two import records: future imports first, then bucket,
// then relative depth, then dotted path, then the canonical rendering when
// one side is a plain import and the other a from-import. From-imports of
// the same origin compare equal; they belong in a single statement.
func Compare(cfg Config, a, b ImportRecord) int {
	if a.Future != b.Future {
		if a.Future {
			return -1
		}
		return 1
	}

	if c := cmp.Compare(cfg.Bucket(a), cfg.Bucket(b)); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Level, b.Level); c != 0 {
		return c
	}

	if c := strings.Compare(a.Path(), b.Path()); c != 0 {
		return c
	}

	if a.Kind != b.Kind {
		return strings.Compare(a.String(), b.String())
	}

	return 0
}

// CompareTotal refines Compare into a total order by breaking remaining ties
// on the canonical rendering and then on source position.
func CompareTotal(cfg Config, a, b ImportRecord) int {
	if c := Compare(cfg, a, b); c != 0 {
		return c
	}

	if c := strings.Compare(a.String(), b.String()); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Pos.Line, b.Pos.Line); c != 0 {
		return c
	}

	return cmp.Compare(a.Pos.Column, b.Pos.Column)
}

// Less reports whether a sorts strictly before b.
func Less(cfg Config, a, b ImportRecord) bool {
	return Compare(cfg, a, b) < 0
}

// Sort orders records in place by CompareTotal.
func Sort(cfg Config, records []ImportRecord) {
	slices.SortStableFunc(records, func(a, b ImportRecord) int {
		return CompareTotal(cfg, a, b)
	})
}
