package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Kid records a signing key id under "kid".
func Kid(kid string) slog.Attr {
	if kid == "" {
		return slog.Attr{}
	}
	return slog.String("kid", kid)
}

// Audience records a token audience under "aud".
func Audience(aud string) slog.Attr {
	if aud == "" {
		return slog.Attr{}
	}
	return slog.String("aud", aud)
}

// Subject records a token subject under "sub".
func Subject(sub string) slog.Attr {
	if sub == "" {
		return slog.Attr{}
	}
	return slog.String("sub", sub)
}

// JTI records a token id under "jti".
func JTI(jti string) slog.Attr {
	if jti == "" {
		return slog.Attr{}
	}
	return slog.String("jti", jti)
}

// Backend records a storage backend name under "backend".
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
