// Package location keeps the listing's filters, page and scroll offset in a
// navigable location, the way a web page keeps them in its URL.
//
// Two kinds of writes exist. Synchronizer.Update is debounced and pushes a
// new history entry, which notifies subscribers (the listing controller
// re-derives its filters from it). ReplacePage and the ScrollTracker rewrite
// the current entry in place without notifying anyone, so bookkeeping never
// causes a refetch.
package location
