/*
Package authsdk is a client for the crumb authentication service.

# Overview

The service authenticates browsers with cookies: a short lived access token,
a longer lived refresh token and a fingerprint cookie the tokens are bound
to. Client keeps those cookies in a cookie jar so a Go program can talk to
the service the way a browser does.

	client, err := authsdk.NewClient("https://auth.example.com")
	if err != nil {
		return err
	}

	// Exchange credentials for the cookie set.
	id, err := client.Login(ctx, "alice", "s3cret")

	// Later requests carry the cookies. An expired access token is renewed
	// transparently by the server from the refresh token.
	me, err := client.Me(ctx)

	// Expire every auth cookie.
	err = client.Logout(ctx)

# Errors

Failed calls return *APIError carrying the HTTP status and the service's
error code:

	_, err := client.Me(ctx)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeUnauthenticated {
		// log in again
	}

The same APIError values are written by the server, so codes match on both
sides.

# Health

	live, err := client.GetLiveness(ctx)
	ready, err := client.GetReadiness(ctx)
*/
package authsdk
