// Package uniuri generates random strings from crypto/rand, used for the
// generated admin password.
package uniuri
