// Package schedule detects weekly time conflicts between course sections.
//
// It is shared by the registration cart, the schedule builder and the conflict resolver.
// Every function is pure: a Selection goes in, a new Selection (or a typed error) comes out.
// Sections are expected to be valid already; use ParseDay and ParseTimeRange when building
// them from catalog labels.
package schedule
