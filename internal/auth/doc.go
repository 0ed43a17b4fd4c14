// Package auth issues and verifies the bearer tokens of the reference uploads service.
//
// Tokens are HS256 signed JWTs carrying the login as subject, a random jti and an
// expiry of issuance + lifetime. Verification rejects tokens with a bad signature, a
// different issuer or an expiry in the past.
package auth
