// Package io reads and writes chaining results.
//
// # JSON
//
// A solved chain and its path are exported as a [Document]:
//
//	{
//	  "run_id": "5f0c...",
//	  "overlap": 55,
//	  "alignments": 412,
//	  "edges": 530,
//	  "sweeps": 7,
//	  "value": 18240,
//	  "path": [
//	    {"index": 3, "node": "12", "query": "EDGE_12_length_...", "subject": "chr1",
//	     "start": 100, "end": 200, "score": 101, "value": 18240, "mismatches": 0}
//	  ]
//	}
//
// Fragments expected but not found on the path are listed under "missing"
// (aligned elsewhere) and "unaligned" (no alignment at all), with close
// fragment IDs under "similar".
//
// Use [NewDocument] and [WriteJSON] or [ExportJSON] to write, and
// [ReadJSON] or [ImportJSON] to read a document back.
//
// # Successor table
//
// [WriteSuccessors] writes one tab-separated row per alignment: the raw
// report line, then the raw lines of every alignment that may follow it.
// Rows come in subject-start order.
package io
