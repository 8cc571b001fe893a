// Package textutil provides the tokenization used to judge how well a video
// title matches a series name. Tokenization lowercases text and splits on
// non-alphanumeric characters; no stemming or stop-word removal is applied.
package textutil
