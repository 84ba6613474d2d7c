// Package version implements ordering of component versions.
//
// Versions are dot-separated strings compared segment by segment. A Long
// version additionally carries a build number that breaks ties between equal
// version strings. How a tie involving the experimental sentinel or a zero
// build number is broken is decided by a Policy, so callers with a different
// versioning scheme can swap the ordering without touching the resolver.
package version
