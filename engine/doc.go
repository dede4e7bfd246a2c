// Package engine opens modernc.org/sqlite connections and registers the SQL
// scalar functions this module relies on: vector distances over embedding
// BLOBs (vec_cosine, vec_l2) and fixture generators (random_vector,
// random_city).
package engine
