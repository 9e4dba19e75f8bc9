// Package model defines the signature record edited by the form and the row
// model shared by every renderer. SignatureData always carries all seven
// fields; Default returns the sample values shown when a session starts. Rows
// flattens a record into the fixed display order (heading, accent,
// organization, contact lines) so the export markup and the on-screen preview
// iterate the same list instead of restating the layout twice. Form wraps a
// record with change notification for the interactive surfaces.
package model
