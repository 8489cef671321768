// Package diag defines the diagnostic model used by the driver.
//
// The resolution engine never reports anything itself: lookups return
// problem bindings. The driver converts those into Diagnostic records through
// a Reporter, and internal/diagfmt renders them.
//
// Codes are grouped in ranges: IO (1000), SYN (2000) for source walker
// failures, RES (4000) for resolution problems, one code per problem reason,
// and OBS (6000) for observability notes.
package diag
