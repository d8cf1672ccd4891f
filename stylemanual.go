// Package stylemanual turns pages of the Australian Government Style Manual
// into a normalized document model (title, overview, ordered sections) and
// renders it as canonical markdown for caching and full-text search.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, goldmark/, fs/).
package stylemanual
