// Package fetch provides the HTTP client shared by the IMDb and YouTube
// scrapers. It sends browser-like headers, retries transient failures with
// exponential backoff, and decodes response bodies according to the charset
// advertised in the Content-Type header.
package fetch
