// Package chain finds the best-scoring chain of alignments across a
// reference.
//
// # Overview
//
// Fragments of an assembly are aligned to a reference independently. This
// package stitches those alignments back together: an alignment b may
// follow an alignment a when b's fragment is a child of a's fragment in the
// assembly graph and the two alignments abut on the reference, allowing for
// the fragments' overlap (see [alignment.AdjacentBefore]). Among all such
// chains it selects the one with the highest total score.
//
// # Pipeline
//
//  1. [New] keeps the forward alignments and sorts them by subject start.
//     The resulting [Chain] is an arena: records are addressed by index.
//  2. [Chain.BuildSuccessors] scans, for every alignment and every graph
//     child of its fragment, the alignments starting before a window bound,
//     so only topologically reachable and nearby pairs are compared.
//  3. [Chain.CheckAcyclic] rejects successor relations with cycles.
//  4. [Chain.Solve] relaxes chain values to a fixed point:
//     value(a) = value(best) + score(a) - overlap(a, best), where best is the
//     successor with the highest value and overlap counts the reference
//     bases both alignments cover.
//  5. [Chain.ExtractPath] starts at the highest value and follows the
//     chosen next hops.
//
// [Chain.Diagnose] lists assembly arcs that no pair of alignments can
// follow, which usually points at a wrong overlap or a misassembly.
//
// # Termination
//
// The relaxation converges on acyclic input within one sweep more than the
// longest chain. [SolveOptions.MaxSweeps] bounds the loop anyway; exceeding
// it yields a [*NonConvergenceError] together with the partial [Solution].
//
// # Concurrency
//
// A Chain is not safe for concurrent mutation. Solve does not modify the
// chain, so several solutions may be computed from one built chain.
package chain
