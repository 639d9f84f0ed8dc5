package alphabet

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CollationLess builds a total order over string symbols using a Unicode
// collator for the given BCP 47 locale tag. Configuration files that name
// symbols drawn from a natural-language script (rather than raw bytes) can
// pass this to alphabet.New so that printed automata sort the way a reader
// of that script expects, rather than by raw byte value.
func CollationLess(locale string) Less[string] {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	col := collate.New(tag)
	return func(a, b string) bool {
		return col.CompareString(a, b) < 0
	}
}
