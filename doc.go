// Package main is the entry point of jnu-web, the API service behind the
// research lab website. See the app package for the commands.
package main
