// Package seed fills a point store with fixture data and checks that the
// store's similarity search agrees with an exact brute-force index.
//
// Points are generated concurrently in batches and written by a single
// writer, since SQLite serializes writes anyway.
package seed
