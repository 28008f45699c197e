package assembly

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

const testFASTG = `>EDGE_1_length_10_cov_2.0:EDGE_2_length_8_cov_3.5;
ACGTACGTAC
>EDGE_1_length_10_cov_2.0';
GTACGTACGT
>EDGE_2_length_8_cov_3.5;
CGTA
CCAA
>EDGE_2_length_8_cov_3.5':EDGE_1_length_10_cov_2.0';
TTGGTACG
`

func mustReadFASTG(t *testing.T, s string, k int) *Graph {
	t.Helper()
	g, err := ReadFASTG(strings.NewReader(s), k)
	if err != nil {
		t.Fatalf("ReadFASTG() error: %v", err)
	}
	return g
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Name
		wantErr bool
	}{
		{
			name: "forward edge",
			in:   "EDGE_12_length_345_cov_6.7",
			want: Name{ID: "12", Length: 345, Coverage: 6.7},
		},
		{
			name: "reverse edge",
			in:   "EDGE_12_length_345_cov_6.7'",
			want: Name{ID: "12r", Length: 345, Coverage: 6.7, Reverse: true},
		},
		{
			name: "long name with children",
			in:   ">EDGE_3_length_50_cov_1:EDGE_4_length_9_cov_2';",
			want: Name{ID: "3", Length: 50, Coverage: 1},
		},
		{
			name: "contig name",
			in:   "NODE_7_length_1000_cov_12.25",
			want: Name{ID: "7", Length: 1000, Coverage: 12.25},
		},
		{
			name:    "unrelated name",
			in:      "chr1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Fatalf("ParseName(%q) error = %v, want ErrInvalidName", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseName(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTwin(t *testing.T) {
	if got := Twin("12"); got != "12r" {
		t.Errorf("Twin(12) = %q, want 12r", got)
	}
	if got := Twin("12r"); got != "12" {
		t.Errorf("Twin(12r) = %q, want 12", got)
	}
}

func TestReadFASTG(t *testing.T) {
	g := mustReadFASTG(t, testFASTG, 3)

	if g.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", g.Len())
	}
	if g.Overlap() != 3 {
		t.Errorf("Overlap() = %d, want 3", g.Overlap())
	}

	n, ok := g.Node("2")
	if !ok {
		t.Fatal("node 2 missing")
	}
	if n.Seq != "CGTACCAA" {
		t.Errorf("node 2 Seq = %q, want multi-line sequence joined", n.Seq)
	}
	if n.Length != 8 || n.Coverage != 3.5 {
		t.Errorf("node 2 = length %d cov %v, want 8 and 3.5", n.Length, n.Coverage)
	}

	children := g.Children("1")
	if len(children) != 1 || children[0].Node.ID != "2" || children[0].Overlap != 3 {
		t.Errorf("Children(1) = %+v, want [2 with overlap 3]", children)
	}
	if got := g.Children("2r"); len(got) != 1 || got[0].Node.ID != "1r" {
		t.Errorf("Children(2r) = %+v, want [1r]", got)
	}
	if got := g.Children("missing"); got != nil {
		t.Errorf("Children(missing) = %+v, want nil", got)
	}

	want := []string{"1", "1r", "2", "2r"}
	if got := g.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestReadFASTG_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		k    int
	}{
		{"sequence before header", "ACGT\n>EDGE_1_length_4_cov_1;\n", 3},
		{"unknown child", ">EDGE_1_length_4_cov_1:EDGE_9_length_4_cov_1;\nACGT\n", 3},
		{"duplicate node", ">EDGE_1_length_4_cov_1;\nACGT\n>EDGE_1_length_4_cov_1;\nACGT\n", 3},
		{"bad header", ">contig1\nACGT\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFASTG(strings.NewReader(tt.in), tt.k)
			if !errors.Is(err, ErrMalformedFASTG) {
				t.Errorf("ReadFASTG() error = %v, want ErrMalformedFASTG", err)
			}
		})
	}

	if _, err := ReadFASTG(strings.NewReader(testFASTG), 0); !errors.Is(err, ErrInvalidOverlap) {
		t.Errorf("ReadFASTG(k=0) error = %v, want ErrInvalidOverlap", err)
	}
}

func TestGraph_AddEdgeErrors(t *testing.T) {
	g, _ := NewGraph(5)
	if err := g.AddNode(&Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	_ = g.AddNode(&Node{ID: "1"})
	if err := g.AddEdge("1", "2", 5); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(unknown target) = %v, want ErrUnknownNode", err)
	}
	if err := g.AddEdge("1", "1", 0); !errors.Is(err, ErrInvalidOverlap) {
		t.Errorf("AddEdge(overlap 0) = %v, want ErrInvalidOverlap", err)
	}
}

func TestCompareIDs(t *testing.T) {
	ids := []string{"10", "2r", "abc", "2", "1r", "1"}
	slices.SortFunc(ids, CompareIDs)
	want := []string{"1", "1r", "2", "2r", "10", "abc"}
	if !slices.Equal(ids, want) {
		t.Errorf("sorted = %v, want %v", ids, want)
	}
}

func TestWriteLastGraph(t *testing.T) {
	g := mustReadFASTG(t, testFASTG, 3)

	var buf bytes.Buffer
	if err := WriteLastGraph(&buf, g); err != nil {
		t.Fatalf("WriteLastGraph() error: %v", err)
	}

	want := strings.Join([]string{
		"2\t0\t3\t1",
		"NODE\t1\t7\t14\t14\t0\t0",
		"TACGTAC",
		"CGTACGT",
		"NODE\t2\t5\t17\t17\t0\t0",
		"ACCAA",
		"GTACG",
		"ARC\t1\t2\t0",
	}, "\n") + "\n"

	if got := buf.String(); got != want {
		t.Errorf("WriteLastGraph() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteLastGraph_MissingTwin(t *testing.T) {
	g := mustReadFASTG(t, ">EDGE_1_length_10_cov_2.0;\nACGTACGTAC\n", 3)

	err := WriteLastGraph(&bytes.Buffer{}, g)
	if !errors.Is(err, ErrMissingTwin) {
		t.Errorf("WriteLastGraph() error = %v, want ErrMissingTwin", err)
	}
}
