// Package auth provides the admin session middleware for the JSON API.
//
// RequireAdmin rejects requests whose session does not carry an admin ID
// with a 401 error. Accepted requests get the session data in fiber.Locals
// so handlers can read it with Current.
//
// Usage:
//
//	admin := app.Group("/api/admin", authmiddleware.RequireAdmin(sessions))
package auth
