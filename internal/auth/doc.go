// Package auth provides authentication and authorization for scrawl.
//
// # Authentication Methods
//
// The package supports two authentication methods:
//
//   - Sessions: Browser users log in with login/password and receive a
//     session cookie. The credential backend is consulted once at login.
//
//   - JWT Tokens: API clients exchange login/password for an HS256-signed
//     token at GET /api/token and present it as a bearer token afterwards.
//     Tokens are stateless: the server keeps nothing per token.
//
// # Capability System
//
// Authorization is expressed as four fixed capabilities derived from a
// principal's role set:
//
//	caps := auth.Resolve(roles) // {CanRead, CanCreate, CanUpdate, CanDelete}
//
// Resolve is the single source of truth. The session chain calls it per
// request from the session's role set; the token chain reads the
// capabilities frozen into the token's claims at issuance time. Revoking a
// role therefore only affects tokens issued afterwards — rotating the
// signing secret is the only way to invalidate outstanding tokens.
//
// # Guards
//
// HTTP middleware composes the route guard pipeline: an identity guard
// (bearer token verification) followed by declarative per-route capability
// guards. A guard rejection short-circuits the chain; the content handler
// never runs.
package auth
