// Package component defines the immutable description of an installable
// component and the constraint expressions components use to declare
// dependencies and conflicts on each other.
package component
