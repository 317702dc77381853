package ndn

import (
	"regexp"

	"github.com/ndn-go/corendn/enc"
)

// InterestFilter is what an application registers with Node.SetInterestFilter:
// a Name prefix, plus an optional regex applied to the components beyond
// that prefix (spec §3's does_match(filter)).
type InterestFilter struct {
	Prefix enc.Name
	Regex  *regexp.Regexp
}

// NewInterestFilter builds a filter that matches prefix and, if regex is
// non-empty, also requires the remaining URI suffix to match it.
func NewInterestFilter(prefix enc.Name, regex string) (InterestFilter, error) {
	f := InterestFilter{Prefix: prefix}
	if regex == "" {
		return f, nil
	}
	re, err := regexp.Compile(regex)
	if err != nil {
		return InterestFilter{}, err
	}
	f.Regex = re
	return f, nil
}

// DoesMatch reports whether name satisfies the filter: name must extend
// (or equal) Prefix, and if a Regex is set, it must match the remaining
// component suffix's URI representation.
func (f InterestFilter) DoesMatch(name enc.Name) bool {
	if !f.Prefix.IsPrefixOf(name) && !f.Prefix.Equal(name) {
		return false
	}
	if f.Regex == nil {
		return true
	}
	return f.Regex.MatchString(name.SubName(len(f.Prefix), -1).String())
}
