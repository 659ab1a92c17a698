// Package services holds the server-side business rules: idempotent punch
// storage, adjustment de-duplication, leave and expense lifecycles, leave
// balances and presigned attachment uploads.
//
// Services return sentinel errors from package common and
// validator.ValidationErrors; the HTTP layer maps both to status codes.
package services
