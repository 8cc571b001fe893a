// Package imdb discovers episode listings for a series by walking its
// per-season listing pages.
//
// The page markup is not under our control and drifts across site revisions,
// so the parser is a forgiving single-pass state machine over the tag token
// stream rather than a DOM query against exact selectors. A page that no
// longer matches produces zero episodes, never an error.
package imdb
