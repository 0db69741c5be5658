// Package logging adapts common Go loggers to readprof.Logger.
//
// # Architecture boundaries
//
// Adapters only translate calls. They do not buffer, filter or rate limit;
// the one-shot behavior of the slow-read warning is owned by readprof.
//
// # What this package must NOT do
//
//   - Panic when the wrapped logger is nil. A nil logger yields a no-op adapter.
//   - Import readprof (the interface is satisfied structurally).
package logging
