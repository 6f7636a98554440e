// Package pipeline turns a list of files into digest records in parallel.
//
// HashFiles reads every file through the shared worker pool and returns the
// records in input order. It is fail-fast: the first file that cannot be
// opened or read aborts the whole batch and nothing is written.
package pipeline
