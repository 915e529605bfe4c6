// Package models contains the gorm models of the lab site.
//
// Boolean flags are stored as small integers (0/1) so the API can echo them
// back unchanged, and JSON columns use datatypes.JSON so MySQL, PostgreSQL and
// SQLite each get their native JSON type.
package models
