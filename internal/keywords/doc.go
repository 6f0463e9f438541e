// Package keywords holds the static, versioned keyword tables that drive
// game classification and region/studio detection in the quote engine.
//
// The default tables ship embedded (tables.yaml). An override file with the
// same shape can be supplied through the [pricing] keywords_path setting;
// it replaces the defaults wholesale so a table version always describes one
// complete set of lists. Every list is case-folded at load time, which lets
// matchers compare folded input without re-folding keywords per call.
//
// A Table is immutable after Parse returns and is safe to share between
// goroutines.
package keywords
