// Package document defines the schema document tree shared by the loader,
// the expansion engine, and the downstream consumers.
//
// A document is a field, model, or form. Object-typed documents carry
// ordered "properties", each a nested document; array-typed documents
// carry a single "items" document. Keys with engine meaning ("$extend",
// "itemsOrder", "$remove", "$merge", ...) map to typed fields; every other
// key is kept as an ordered attribute.
//
// Documents decode from JSON or YAML through yaml.v3 nodes so that source
// key order survives, and encode back to JSON in that order.
package document
