package merge

import (
	"fmt"
	"maps"
)

// Defaults maps a property name to the tokens used for arrays under that
// name when the array itself carries none.
type Defaults map[string]Tokens

// DefaultAnnotations returns the built-in table.
func DefaultAnnotations() Defaults {
	return Defaults{
		"required":    TokenPrepend | TokenUnique,
		"recommended": TokenPrepend | TokenUnique,
		"enum":        TokenUnique,
	}
}

// DefaultsFromConfig builds a table from token spellings per property name,
// starting from the built-in table. Entries in cfg replace built-in ones.
func DefaultsFromConfig(cfg map[string][]string) (Defaults, error) {
	out := DefaultAnnotations()

	for key, names := range cfg {
		tok, err := ParseTokens(names)
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", key, err)
		}

		out[key] = tok
	}

	return out, nil
}

// Clone returns a copy of the table.
func (d Defaults) Clone() Defaults {
	return maps.Clone(d)
}
