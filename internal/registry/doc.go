// Package registry loads schema documents from a source tree and indexes
// them by class and id.
//
// The source root holds one directory per class:
//
//	wiki/
//	  field/radius.json
//	  model/Circle.jsonc
//	  form/CircleForm.yaml
//	  template/Card.wikitext
//
// Field, model and form files are parsed as documents. JSON files may carry
// comments and trailing commas. Leaf classes (template by default) are kept
// as raw text. A document's id is its file name without extension, so ids
// must be unique within a class even across subdirectories.
package registry
