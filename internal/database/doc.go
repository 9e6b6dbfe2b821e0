// Package database provides SQLite-based storage of generation runs.
//
// Recording is opt-in. When enabled, every successful run stores its
// counts, the selected subscription URLs and the exact configuration that
// was written, so an earlier configuration can be inspected or restored.
// The database lives in the XDG data directory by default.
package database
