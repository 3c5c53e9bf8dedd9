// Package auth authenticates admin panel users.
//
// LocalProvider checks a username or email and password against the users
// table (Argon2id hashes). OIDCProvider runs the OpenID Connect code flow
// against an external identity provider; identities are matched to existing
// accounts by verified email address, the provider never creates accounts or
// assigns roles.
//
// Both yield a *models.User. NewActor turns it into the Actor threaded
// through a request, with its role normalized exactly once.
package auth
