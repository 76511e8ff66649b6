// Package filters maps between location query parameters, the canonical
// filter State and the parameters the Rescue API expects.
//
// Every field has exactly one sentinel ("Any size", "any", ...) meaning no
// filter. Sentinels never appear in a location or an API request: Encode
// and BuildAPIParams drop them, and Derive restores them for absent
// parameters. Route defaults (an age fixed by /dogs/puppies) are applied by
// Derive and omitted again by Encode, so a location survives a
// derive/encode round trip unchanged.
package filters
