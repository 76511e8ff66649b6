// Package rescue provides an HTTP client for the Rescue listing API.
//
// # Overview
//
// The Rescue API aggregates adoption listings from many rescue
// organizations. kennel only reads from it:
//
//   - GET /api/dogs: one page of dogs (limit, offset, filter params)
//   - GET /api/dogs/counts: per-option counts for the active filters
//   - GET /api/regions?country=: regions dogs can be adopted to
//   - GET /api/organizations: organization metadata
//
// # Client Usage
//
//	client, err := rescue.NewClient("https://api.example.org", rescue.WithTimeout(5*time.Second))
//	if err != nil {
//		return err
//	}
//	dogs, err := client.ListDogs(ctx, rescue.ListQuery{Limit: 20, Params: params})
//
// # Request Handling
//
// All requests:
//   - Honour context cancellation (the listing controller cancels superseded fetches)
//   - Send Accept: application/json and User-Agent: kennel/0.1
//   - Carry a fresh X-Request-ID for log correlation
//   - Are never retried; retry policy belongs to the caller
//
// Non-2xx responses are returned as *APIError. Transport and decode
// failures are wrapped with "execute request". A cancelled request
// satisfies errors.Is(err, context.Canceled).
//
// Region lists change rarely and are kept in a small LRU keyed by country.
package rescue
