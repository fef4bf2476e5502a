// Package diagnostic provides structured errors, warnings, and infos for
// schema expansion and validation.
//
// Key capabilities:
//   - Malformed and dangling extension pointers
//   - Inheritance cycles, with the inheritance stack at abort time
//   - Stale names in "itemsOrder" and "$remove"
//   - Unused and unresolved documents found by the validator
//
// Nothing here is fatal: a pass collects diagnostics and the caller decides
// whether to halt. A Reporter mirrors every diagnostic to a slog.Logger, the
// shared log channel for authors.
package diagnostic
