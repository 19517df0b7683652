// Package store persists the modification log: the ordered history of
// free-text human feedback given during task generation runs.
//
// The log is stored as a versioned JSON file. Load and Save are plain
// read-then-write file operations with no locking; meetprep assumes a
// single active process per store file.
package store
