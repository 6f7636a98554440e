// Package lzjd builds Lempel-Ziv Jaccard Distance sketches.
//
// A sketch is the set of the K smallest hashes of the phrases produced by an
// LZ78-style parse of a byte stream. Two sketches are compared with the
// Jaccard index of their hash sets, which approximates how much content the
// underlying byte streams share.
//
// Sketches are only comparable when they were built with the same HashFamily.
package lzjd
