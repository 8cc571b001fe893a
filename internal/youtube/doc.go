// Package youtube finds trailers, clips, and other videos related to a
// series or episode by scraping search result pages.
//
// Search pages carry their results as a large JSON blob assigned to
// ytInitialData inside a script tag. The extractor parses that blob and
// searches its tree for video records wherever they appear, because the
// exact path through the schema is not stable. When the blob is missing or
// unparseable a regex fallback recovers a bounded number of ids from the
// raw page text.
package youtube
