// Package token issues and verifies HSEAL tokens: HMAC-SHA256 signed,
// audience-scoped tokens carrying a JSON payload.
//
// Token format: base64url(header).base64url(payload).base64url(signature)
//
// The header is {"alg":"HS256","typ":"HSEAL","kid":...,"ver":1} plus optional
// extra fields. The payload always carries iat, exp and jti, and optionally
// nbf, aud, sub and data. Each token is signed with a key derived via HKDF from
// the secret of its kid, salted with the kid and scoped to its audience, so a
// token minted for one audience can never validate under another.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/hseal/pkg/secrets"
//	    "github.com/dmitrymomot/hseal/pkg/token"
//	)
//
//	keys, err := secrets.Generate("k1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := token.New(keys, token.WithReplayGuard(guard))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tok, err := m.Sign(token.DurationString("15m"),
//	    token.WithAudience("auth:web"),
//	    token.WithSubject(userID),
//	)
//
//	p, err := m.Verify(ctx, tok, token.ExpectAudience("auth:web"))
//
// # Key rotation
//
// Add a new key as current with KeyStore.Rotate and keep the previous kid
// until every token signed with it has expired, then RemoveKey it.
//
// # Errors
//
// Every failure wraps exactly one sentinel (ErrMalformedToken, ErrUnknownKey,
// ErrInvalidSignature, ErrTokenNotYetValid, ErrTokenExpired,
// ErrAudienceMismatch, ErrSubjectMismatch, ErrReplayDetected,
// ErrReplayUnavailable). A failing replay guard rejects the token.
package token
