// Package textutil provides the text helpers shared by keyword matching and
// catalog normalization.
//
// The primary use cases are:
//   - Unicode case folding so Latin and Cyrillic keywords compare the same way
//   - Converting catalog HTML descriptions into plain, length-limited text
//   - Ranking catalog search hits by token cosine similarity to a query
//
// Fingerprints use term frequency vectors. Tokenization folds case, splits on
// anything that is not a letter or digit, and drops single-rune tokens.
package textutil
