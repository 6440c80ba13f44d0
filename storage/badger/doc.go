// Package badger implements the run log on BadgerDB.
//
// Run records are stored under a primary key derived from the run UUID, with
// a BigEndian timestamp index for newest-first listing. Records are encoded
// with the MUS codecs generated in core.
package badger
