// Package registry persists processed-document records as flat string
// maps in an embedded BadgerDB store.
package registry
