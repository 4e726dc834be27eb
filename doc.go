// Package auth implements a credential-issuing authentication service:
// it registers user accounts, verifies login credentials, and mints signed
// JWTs carrying identity and role claims.
//
// The package is organized around three collaborators:
//   - CredentialStore owns principals, password verification, and role
//     membership. The bundled UserProvider implements it on top of Bun
//     repositories with bcrypt hashing; any store satisfying the interface
//     can be swapped in.
//   - TokenService signs and validates HS256 tokens. Issuer, audience,
//     signing key, and token lifetime are process-wide configuration loaded
//     once at startup; a missing key fails construction rather than the
//     first request.
//   - Auther orchestrates login and registration against the two above. It
//     never holds principal state across calls and reports failures as
//     categorized errors that the HTTP controller maps to status codes.
//
// HTTP wiring lives in AuthController (fiber) and middleware/jwtware, which
// gates the admin registration route on a bearer token carrying the Admin
// role.
package auth
