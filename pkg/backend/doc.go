// Package backend is the HTTP client for the brewtower backend API.
//
// The CLI and the browser UI never compute recipe statistics themselves:
// they post ingredients to the backend's calculation endpoint and render
// the returned statistics. [Client] wraps every endpoint the backend serves
// (recipes, ingredients, styles, BeerXML, calculation) with
//
//   - a 10 second request timeout
//   - retries with exponential backoff on connection failures and 5xx
//     responses (see [httputil.RetryWithBackoff])
//   - typed errors: a non-OK response becomes a [*errors.Error] carrying the
//     code from the response body, wrapping [ErrNotFound] or [ErrNetwork]
//   - an optional read-through [cache.Cache] for the style catalog
//
// The client also implements catalog.Fetcher, so a style catalog can be
// loaded straight from a backend:
//
//	client, err := backend.New("http://localhost:5000", backend.WithCache(c, time.Hour))
//	cat := catalog.New(client, c, logger)
package backend
