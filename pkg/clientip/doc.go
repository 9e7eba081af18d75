// Package clientip resolves the client address of an HTTP request.
//
// By default only RemoteAddr is used. Behind a reverse proxy, construct the
// Resolver with trustProxy to read X-Forwarded-For and X-Real-IP instead.
// Addresses are normalized (IPv4-mapped IPv6 unmapped, zones dropped) so they
// make stable rate-limit keys.
package clientip
