// Package version parses and orders project release versions.
//
// # Format
//
// Release versions are dotted strings with up to four parts:
//
//	<major>.<feature group>.<feature>.<bugfix>
//
// The first three parts are numeric; the fourth is a free-form qualifier such
// as "Final", "CR1" or "Beta4". Versions like "5.1" or "3.6" are valid and
// the missing parts default to 0 and "".
//
// # Ordering
//
// [Compare] orders by major, feature group and feature numerically, then by
// the qualifier as a plain string. The qualifier comparison is byte-wise, not
// release-stage aware: "Alpha1" < "Beta1" < "CR1" < "Final" only because the
// tokens happen to sort that way. Existing catalogs depend on this ordering,
// so it is kept as is.
package version
