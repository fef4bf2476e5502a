package common

import (
	"path"
	"strings"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// TrimExt returns the base name of p without its extension, if the extension
// is one of exts. Other extensions are kept as part of the name.
func TrimExt(p string, exts ...string) string {
	base := path.Base(p)

	ext := path.Ext(base)
	if ext == "" {
		return base
	}

	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return strings.TrimSuffix(base, ext)
		}
	}

	return base
}
