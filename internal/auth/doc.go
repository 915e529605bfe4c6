// Package auth authenticates admin accounts against the local database.
//
// Passwords are stored as Argon2id hashes. Bcrypt hashes imported from the
// previous backend are still accepted. Session handling lives in
// internal/web/session and route protection in internal/web/middleware/auth.
//
// Example usage:
//
//	provider := auth.NewLocalProvider(db)
//	admin, err := provider.Authenticate(ctx, username, password)
package auth
