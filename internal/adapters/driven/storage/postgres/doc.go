// Package postgres provides a VectorIndex on PostgreSQL with the pgvector
// extension.
//
// Embeddings are stored in an unconstrained vector column. Search orders by
// the <-> (Euclidean) operator and applies the document-name filter in the
// same statement, so filtering happens before the LIMIT.
package postgres
