package probe

import (
	"sort"
	"strings"
)

// KeywordSet is an immutable set of lowercase substrings associated with
// known screen-recorder apps.
type KeywordSet struct {
	words []string
}

var defaultKeywords = []string{
	"az screen",
	"mobizen",
	"du recorder",
	"screen recorder",
	"recorder",
	"xrecorder",
	"vidma",
}

// DefaultKeywords returns the built-in recorder keywords.
func DefaultKeywords() KeywordSet {
	return NewKeywordSet(defaultKeywords...)
}

// NewKeywordSet lowercases and trims words. Empty entries and duplicates are dropped.
func NewKeywordSet(words ...string) KeywordSet {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return KeywordSet{words: out}
}

// Union returns a new set holding the keywords of both sets.
func (s KeywordSet) Union(other KeywordSet) KeywordSet {
	all := make([]string, 0, len(s.words)+len(other.words))
	all = append(all, s.words...)
	all = append(all, other.words...)
	return NewKeywordSet(all...)
}

// Match returns the first keyword contained in name, ignoring case.
func (s KeywordSet) Match(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, w := range s.words {
		if strings.Contains(name, w) {
			return w, true
		}
	}
	return "", false
}

func (s KeywordSet) Len() int {
	return len(s.words)
}

// Words returns a sorted copy of the keywords.
func (s KeywordSet) Words() []string {
	out := append([]string(nil), s.words...)
	sort.Strings(out)
	return out
}
