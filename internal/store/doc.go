// Package store persists tracked series in SQLite.
package store
