// Package clientip resolves the originating client address of a request.
//
// A Resolver trusts only the proxy headers it was built with, checked in
// order, and falls back to the TCP peer address. Values are validated with
// net/netip, so spoofed garbage in a header is skipped rather than returned.
//
//	res := clientip.New(clientip.HeaderCloudflare, clientip.HeaderForwardedFor)
//	r.Use(res.Middleware)
//
//	ip := clientip.FromContext(r.Context())
package clientip
