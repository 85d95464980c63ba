// Package auth provides the session middleware of the api.
//
// Middleware resolves the session token of a request (session cookie or bearer
// header) and puts the session user into fiber.Locals. It never rejects a request,
// the guards do:
//   - RequireSession answers 401 without a valid session
//   - RequireAdmin answers 401 without a session and 403 for non admin roles
//   - ProtectWrites applies RequireAdmin to every mutating request except the
//     public submissions (contact messages, newsletter sign ups, likes, auth)
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
//	api.Use(authmiddleware.ProtectWrites(cfg.Auth.ProtectWrites))
package auth
