// Package server is a small HTTP service exercising every HSEAL protocol:
//
//	POST /auth/token              email+password -> bearer access token
//	GET  /me                      requires a bearer token for the access audience
//	GET  /csrf/{action}           issues a double-submit CSRF cookie and token
//	POST /transfer                bearer token + CSRF token for "transfer"
//	POST /password-reset          mails a single-use reset link
//	POST /password-reset/confirm  consumes the reset token and sets a new password
//	GET  /healthz, /readyz        liveness and readiness probes
package server
