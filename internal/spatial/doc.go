// Package spatial answers fixed-radius neighbour queries over a particle
// position array.
//
// [Grid] buckets positions into uniform cells hashed into a sorted table and
// is the index used in production. [BruteForce] scans every position; it is
// quadratic per full sweep and only meant for small particle counts and as a
// reference in tests.
//
// Both return neighbour indices lazily as an [iter.Seq]. The order is fixed
// for a given build but callers must not depend on it. A query point that
// coincides with a particle yields that particle too.
package spatial
