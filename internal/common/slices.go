package common

import "reflect"

// UniqueDeep returns a copy of s without repeated elements, keeping the first
// occurrence. Elements are compared with reflect.DeepEqual so nested JSON
// values (maps, slices) are handled.
func UniqueDeep[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}

	out := make(S, 0, len(s))

	for _, v := range s {
		dup := false

		for _, seen := range out {
			if reflect.DeepEqual(seen, v) {
				dup = true
				break
			}
		}

		if !dup {
			out = append(out, v)
		}
	}

	return out
}
