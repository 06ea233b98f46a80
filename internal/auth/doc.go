// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package auth provides credential hashing, access tokens and the request
authorization middleware.

Key Components:

  - Hasher: bcrypt hashing and verification of passwords and reset tokens
  - JWTManager: HS256 token issue and verification with typed failures
  - Denylist: optional revocation of token ids until they expire
  - Middleware: resolves the bearer token to an active account

Token Lifecycle:

Tokens carry the account id in the "userId" claim plus exp, iat, nbf and a
random jti. Verification distinguishes three failures so the middleware can
answer with the right message:

	claims, err := jwtManager.VerifyToken(raw)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
	    // "Token telah kedaluwarsa"
	case errors.Is(err, auth.ErrTokenInvalidSignature), errors.Is(err, auth.ErrTokenMalformed):
	    // "Token tidak valid"
	}

Logout revokes the token's jti in the Denylist. The in-memory implementation
is per process; with several replicas a revoked token stays valid on the
others until it expires.

Request Context:

After Authenticate succeeds the acting account is available to handlers:

	acct, ok := auth.AccountFromContext(r.Context())

Handlers never read the account id from the request body or URL.
*/
package auth
