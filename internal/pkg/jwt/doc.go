// Package jwt verifies the access tokens issued by the hosted auth service.
//
// Tokens are HS256 signed with the project JWT secret. The subject is the
// user UUID; email and role travel as custom claims. Verified claims are kept
// on the request context with SetAuth and read back with GetAuth.
package jwt
