// Package config loads the tool configuration from layered YAML files:
// built-in defaults, then the user file, then the nearest project file, then
// an explicit file. Later layers override earlier ones key by key.
//
//	source: ./wiki
//	output: ./build
//	cycle_tolerance: 3
//	leaf_classes: [template]
//	patterns:
//	  field: "field/**/*.{json,jsonc,yaml,yml}"
//	annotations:
//	  required: ["@prepend", "@unique"]
//	watch:
//	  debounce: 300ms
package config
