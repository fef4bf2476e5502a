package merge

import (
	"fmt"
	"strings"
)

// Tokens is a set of array merge annotations.
type Tokens uint8

// Annotation tokens, as written in arrays.
const (
	TokenPrepend Tokens = 1 << iota
	TokenAppend
	TokenOverwrite
	TokenUnique
	TokenSorted
	TokenUnsorted
)

var tokenNames = []struct {
	tok  Tokens
	name string
}{
	{TokenPrepend, "@prepend"},
	{TokenAppend, "@append"},
	{TokenOverwrite, "@overwrite"},
	{TokenUnique, "@unique"},
	{TokenSorted, "@sorted"},
	{TokenUnsorted, "@unsorted"},
}

// ParseToken returns the token spelled by s.
func ParseToken(s string) (Tokens, bool) {
	for _, tn := range tokenNames {
		if tn.name == s {
			return tn.tok, true
		}
	}

	return 0, false
}

// ParseTokens parses a list of token spellings. Unknown spellings are an
// error so configuration typos surface early.
func ParseTokens(names []string) (Tokens, error) {
	var out Tokens

	for _, n := range names {
		tok, ok := ParseToken(strings.TrimSpace(n))
		if !ok {
			return 0, fmt.Errorf("unknown merge token %q", n)
		}

		out |= tok
	}

	return out, nil
}

// Has reports whether every token in o is set.
func (t Tokens) Has(o Tokens) bool {
	return t&o == o
}

// Names returns the token spellings in canonical order.
func (t Tokens) Names() []string {
	var out []string

	for _, tn := range tokenNames {
		if t.Has(tn.tok) {
			out = append(out, tn.name)
		}
	}

	return out
}

// String joins the token spellings with spaces.
func (t Tokens) String() string {
	return strings.Join(t.Names(), " ")
}

// IsToken reports whether v is a string spelling an annotation token.
func IsToken(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}

	_, ok = ParseToken(s)

	return ok
}

// Annotated is an array split into its annotation tokens and its items.
type Annotated struct {
	Tokens Tokens
	Items  []any
}

// Parse splits list into tokens and items. Items keep their order.
func Parse(list []any) Annotated {
	var a Annotated

	for _, v := range list {
		if s, ok := v.(string); ok {
			if tok, ok := ParseToken(s); ok {
				a.Tokens |= tok
				continue
			}
		}

		a.Items = append(a.Items, v)
	}

	return a
}

// Strings returns the string items of list, skipping tokens and non-strings.
func Strings(list []any) []string {
	var out []string

	for _, v := range Parse(list).Items {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
