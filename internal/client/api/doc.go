// Package api is the client side of the sold.bd JSON API.
//
// # Overview
//
// A Client calls named API functions ("deals", "admin-deals", ...) through a
// Backend, which knows how function names map to URLs and how to rotate a
// refresh token. Token state lives in a Session owned by the caller, so the
// same Client works with an in-memory session in tests and a persisted one in
// the CLI.
//
// # Retries and refresh
//
// Network failures and 5xx responses are retried immediately, up to two
// extra attempts. A 401 triggers exactly one refresh; on success the new pair
// is saved and the original request is replayed once (one extra attempt for
// network/5xx). A failed refresh surfaces the original 401.
//
// # Errors
//
// Non-2xx responses become *Error. Exhausted network retries wrap
// ErrUnavailable. A final 401 matches ErrUnauthorized via errors.Is.
package api
