// Package alignment parses local alignments of assembly fragments against a
// reference and decides which alignments may follow each other.
//
// # Records
//
// A [Record] is one line of a tabular BLAST report (-outfmt 6 or 7) with
// the columns
//
//	qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore
//
// The query is an assembly fragment named after the assembler's convention
// ("EDGE_12_length_345_cov_6.7"), which supplies the fragment ID and the
// query length used for the derived metrics: unaligned prefix and suffix of
// the fragment (StartCut, EndCut), indel slack (Deletions, Insertions) and
// the identity score, the fraction of the fragment covered by identical
// bases. Records scoring above [DefaultValidThreshold] are valid.
//
// Records are immutable after parsing. [ReadReport] fails on the first line
// that cannot be parsed with a [*MalformedRecordError].
//
// # Adjacency
//
// [AdjacentBefore] reports whether one alignment can directly precede
// another on the reference given the overlap between their fragments in the
// assembly graph. The tolerance window combines the indel slack of both
// alignments, a fixed error margin and the shift the fragment overlap
// induces on reference coordinates.
//
// # Indexes
//
// [NewIndex] groups records by a [Key]: fragment ID or subject start.
package alignment
