// Package assembly models a genome assembly graph of overlapping fragments.
//
// # Overview
//
// An assembler such as SPAdes emits its de Bruijn graph as FASTG: every
// fragment (edge of the de Bruijn graph, node here) appears twice, once as
// itself and once as its reverse complement, and each header lists the
// fragments that may follow it. Consecutive fragments share exactly k bases,
// the overlap length of the assembly.
//
// This package reads FASTG into a [Graph], parses fragment names such as
// "EDGE_12_length_345_cov_6.7'" with [ParseName], and converts a graph into
// velvet's LastGraph format with [WriteLastGraph].
//
// # Fragment IDs
//
// Fragment IDs are the numeric part of the name. The reverse complement of a
// fragment carries an "r" suffix, so "12" and "12r" are the two strands of
// the same sequence. [Twin] maps one to the other.
//
// # Usage
//
//	g, err := assembly.ReadFASTG(f, 55)
//	if err != nil {
//	    return err
//	}
//	for _, e := range g.Children("12") {
//	    fmt.Println(e.Node.ID, e.Overlap)
//	}
//
// # Concurrency
//
// A Graph is immutable once built and safe for concurrent reads.
package assembly
