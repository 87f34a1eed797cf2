// Package backup manages on-disk backup snapshots of configuration files.
//
// A backup is a byte-for-byte copy of the live file at "<path>.bak",
// always a sibling in the same directory. Three operations are provided:
// Write (explicit snapshot, overwrites), Restore (copy the snapshot back
// over the live file), and Ensure (create the snapshot only if none
// exists — the one non-destructive bootstrap path).
//
// Backups have no in-memory representation; they are plain files and the
// only safety net around a destructive save.
package backup
