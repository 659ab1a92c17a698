// Package common contains constants and sentinel errors shared by the
// punchkeeper client and server.
package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// DateLayout is the wire and storage format of calendar days.
const DateLayout = "2006-01-02"

// APIPrefix is the root of every REST route.
const APIPrefix = "/api/v1"
