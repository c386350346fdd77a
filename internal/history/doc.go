// Package history stores assess runs in a local SQLite database.
//
// Each assess invocation is recorded with its result and the statistics of
// the summary it produced, so that users can see how the findings of an
// application evolve between assessments. The database lives in the XDG
// data directory (~/.local/share/appmodkit/appmodkit.db on Linux).
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the store
// is a single file that needs no server, and the CGO-free driver keeps the
// binary easy to cross-compile.
//
// Recording is best effort. A history failure never changes the result of
// the assessment itself.
package history
