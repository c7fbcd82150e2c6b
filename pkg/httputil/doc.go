// Package httputil provides the HTTP client used to fetch remote manifests
// and wireframe assets.
//
// # Overview
//
// [Client] wraps an [http.Client] with a request timeout and default
// headers, and maps response statuses onto the structured error codes of
// package errors:
//
//   - 200: success
//   - 404: errors.ErrCodeNotFound
//   - anything else, or a transport failure: errors.ErrCodeNetwork
//
// Requests are never retried. A failed load surfaces to the caller, which
// decides whether it is fatal (export) or only logged (manifest).
//
// Usage:
//
//	c := httputil.NewClient(nil)
//	data, err := c.GetBytes(ctx, "http://localhost:8000/manifest.json")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // nothing there
//	}
package httputil
