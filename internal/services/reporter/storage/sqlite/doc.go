// Package sqlite implements reporter storage on SQLite.
package sqlite
