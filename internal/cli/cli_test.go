package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/omacc/omacc/pkg/config"
	resultio "github.com/omacc/omacc/pkg/io"
	"github.com/omacc/omacc/pkg/observability"
	"github.com/omacc/omacc/pkg/pipeline"
)

const testFASTG = `>EDGE_1_length_101_cov_5:EDGE_2_length_105_cov_5;
ACGTACGTAC
>EDGE_2_length_105_cov_5;
ACGTACGTAC
>EDGE_3_length_80_cov_5;
ACGTACGTAC
`

const testReport = `# BLASTN 2.12.0+
EDGE_1_length_101_cov_5	ref	100.00	101	0	0	1	101	100	200	1e-50	186
EDGE_2_length_105_cov_5	ref	100.00	105	0	0	1	105	196	300	1e-50	190
EDGE_3_length_80_cov_5	ref	100.00	80	0	0	1	80	5000	5079	1e-40	150
`

// testEnv isolates the config and cache locations and returns a directory
// holding the report and the assembly graph.
func testEnv(t *testing.T) (dir, report, fastg string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("OMACC_ASSEMBLY_OVERLAP", "")
	os.Unsetenv("OMACC_ASSEMBLY_OVERLAP")
	t.Cleanup(observability.Reset)

	dir = t.TempDir()
	report = filepath.Join(dir, "hits.tsv")
	fastg = filepath.Join(dir, "assembly.fastg")
	writeFile(t, report, testReport)
	writeFile(t, fastg, testFASTG)
	return dir, report, fastg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// execute runs the root command with args and returns what the command
// wrote to the CLI output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChainCommand(t *testing.T) {
	dir, report, fastg := testEnv(t)
	pathOut := filepath.Join(dir, "path.dot")
	jsonOut := filepath.Join(dir, "path.json")
	succOut := filepath.Join(dir, "successors.tsv")

	out, err := execute(t, "chain", report, fastg, "-k", "5",
		"-o", pathOut, "--json", jsonOut, "--successors", succOut, "--no-cache")
	if err != nil {
		t.Fatalf("chain: %v", err)
	}

	if dotSrc := readFile(t, pathOut); !strings.Contains(dotSrc, "a0 -> a1;") {
		t.Errorf("path diagram missing the chain link:\n%s", dotSrc)
	}
	if tsv := readFile(t, succOut); !strings.Contains(tsv, "EDGE_1_length_101_cov_5\tref") {
		t.Errorf("successor table missing first record:\n%s", tsv)
	}

	doc, err := resultio.ImportJSON(jsonOut)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if doc.Value != 201 || len(doc.Path) != 2 || doc.Overlap != 5 {
		t.Errorf("document = value %d, %d steps, overlap %d; want 201, 2, 5", doc.Value, len(doc.Path), doc.Overlap)
	}

	if !strings.Contains(out, "FRAGMENT") {
		t.Errorf("output should contain the path table, got:\n%s", out)
	}
}

func TestChainCommand_ConfigOverlap(t *testing.T) {
	dir, report, fastg := testEnv(t)
	cfgPath := filepath.Join(dir, "omacc.toml")
	writeFile(t, cfgPath, "[assembly]\noverlap = 5\n\n[cache]\nenabled = false\n")

	if _, err := execute(t, "--config", cfgPath, "chain", report, fastg); err != nil {
		t.Fatalf("chain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "hits.path.dot")); err != nil {
		t.Errorf("default path diagram not written: %v", err)
	}
}

func TestChainCommand_Errors(t *testing.T) {
	dir, report, fastg := testEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no overlap", []string{"chain", report, fastg, "--no-cache"}, "overlap must be positive"},
		{"bad format", []string{"chain", report, fastg, "-k", "5", "-o", filepath.Join(dir, "p.gif"), "--no-cache"}, "invalid output"},
		{"missing report", []string{"chain", filepath.Join(dir, "nope.tsv"), fastg, "-k", "5", "--no-cache"}, "read alignment report"},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.toml"), "chain", report, fastg}, "read config"},
		{"arg count", []string{"chain", report}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestChainCommand_CacheClear(t *testing.T) {
	dir, report, fastg := testEnv(t)
	pathOut := filepath.Join(dir, "path.dot")

	for range 2 {
		if _, err := execute(t, "chain", report, fastg, "-k", "5", "-o", pathOut); err != nil {
			t.Fatalf("chain: %v", err)
		}
	}

	cacheRoot, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	shards, err := os.ReadDir(cacheRoot)
	if err != nil || len(shards) == 0 {
		t.Fatalf("cache should hold entries after a run (err %v)", err)
	}

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != cacheRoot {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheRoot)
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	shards, _ = os.ReadDir(cacheRoot)
	if len(shards) != 0 {
		t.Errorf("cache clear left %d entries", len(shards))
	}
}

func TestConfigCommands(t *testing.T) {
	dir, _, _ := testEnv(t)
	cfgPath := filepath.Join(dir, "conf", "omacc.toml")

	if _, err := execute(t, "--config", cfgPath, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "--config", cfgPath, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if _, err := execute(t, "--config", cfgPath, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err := execute(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[assembly]", "[solver]", `timeout = "5m0s"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--config", cfgPath, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, want %q", out, cfgPath)
	}

	out, err = execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	def, _ := config.DefaultPath()
	if strings.TrimSpace(out) != def {
		t.Errorf("config path = %q, want default %q", out, def)
	}
}

func TestLastGraphCommand(t *testing.T) {
	dir, _, _ := testEnv(t)
	in := filepath.Join(dir, "both.fastg")
	out := filepath.Join(dir, "LastGraph")
	writeFile(t, in, `>EDGE_1_length_10_cov_2.0:EDGE_2_length_8_cov_3.5;
ACGTACGTAC
>EDGE_1_length_10_cov_2.0';
GTACGTACGT
>EDGE_2_length_8_cov_3.5;
CGTA
CCAA
>EDGE_2_length_8_cov_3.5':EDGE_1_length_10_cov_2.0';
TTGGTACG
`)

	if _, err := execute(t, "lastgraph", "-k", "3", in, out); err != nil {
		t.Fatalf("lastgraph: %v", err)
	}
	got := readFile(t, out)
	if !strings.HasPrefix(got, "2\t0\t3\t1\n") || !strings.HasSuffix(got, "ARC\t1\t2\t0\n") {
		t.Errorf("unexpected LastGraph:\n%s", got)
	}

	if _, err := execute(t, "lastgraph", in, out); err == nil {
		t.Error("lastgraph without an overlap should fail")
	}
}

func TestShowCommand(t *testing.T) {
	dir, report, fastg := testEnv(t)
	jsonOut := filepath.Join(dir, "path.json")

	if _, err := execute(t, "chain", report, fastg, "-k", "5",
		"-o", filepath.Join(dir, "path.dot"), "--json", jsonOut, "--expect", "1,9", "--no-cache"); err != nil {
		t.Fatalf("chain: %v", err)
	}

	out, err := execute(t, "show", jsonOut)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"FRAGMENT", "201"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "show", filepath.Join(dir, "nope.json")); err == nil {
		t.Error("show of a missing file should fail")
	}
}

func TestChainOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Assembly.Overlap = 21
	cfg.Solver.MaxSweeps = 40

	var flags chainFlags
	set := pflag.NewFlagSet("chain", pflag.ContinueOnError)
	set.IntVar(&flags.overlap, "overlap", 0, "")
	set.IntVar(&flags.maxSweeps, "max-sweeps", 0, "")
	set.DurationVar(&flags.timeout, "timeout", 0, "")
	if err := set.Parse([]string{"--overlap=55", "--timeout=2s"}); err != nil {
		t.Fatal(err)
	}

	opts := chainOptions(cfg, flags, set)
	if opts.Overlap != 55 {
		t.Errorf("Overlap = %d, want flag value 55", opts.Overlap)
	}
	if opts.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", opts.Timeout)
	}
	if opts.MaxSweeps != 40 {
		t.Errorf("MaxSweeps = %d, want config value 40", opts.MaxSweeps)
	}
	if opts.SafetyMargin != cfg.Candidates.SafetyMargin || opts.ErrorMargin != cfg.Adjacency.ErrorMargin {
		t.Errorf("margins = %d/%d, want config values", opts.SafetyMargin, opts.ErrorMargin)
	}
}

func TestChainTargets(t *testing.T) {
	targets := chainTargets(chainFlags{
		candidates: "cand.SVG",
		jsonOut:    "out.json",
	}, "data/hits.tsv")

	want := []artifactTarget{
		{pipeline.Output{Kind: pipeline.KindPath, Format: "dot"}, "data/hits.path.dot"},
		{pipeline.Output{Kind: pipeline.KindCandidates, Format: "svg"}, "cand.SVG"},
		{pipeline.Output{Kind: pipeline.KindDocument, Format: pipeline.FormatJSON}, "out.json"},
	}
	if len(targets) != len(want) {
		t.Fatalf("got %d targets, want %d", len(targets), len(want))
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("target %d = %+v, want %+v", i, targets[i], want[i])
		}
	}
}

func TestDiagramFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"path.dot", "dot"},
		{"path.PNG", "png"},
		{"dir.v2/path", "dot"},
		{"path", "dot"},
	}
	for _, tt := range tests {
		if got := diagramFormat(tt.path); got != tt.want {
			t.Errorf("diagramFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

var testSteps = []resultio.Step{
	{Index: 0, Node: "1", Query: "EDGE_1_length_101_cov_5", Subject: "ref", Start: 100, End: 200, Score: 101, Value: 201},
	{Index: 1, Node: "2", Query: "EDGE_2_length_105_cov_5", Subject: "ref", Start: 196, End: 300, Score: 105, Value: 105, Mismatches: 3},
}

func TestPathTable(t *testing.T) {
	var buf bytes.Buffer
	printPathTable(&buf, &resultio.Document{Path: testSteps})

	out := buf.String()
	for _, want := range []string{"FRAGMENT", "VALUE", "201", "196"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printPathTable(&buf, &resultio.Document{})
	if buf.Len() != 0 {
		t.Errorf("empty path should print nothing, got %q", buf.String())
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(3, 1, 2, true)
	for _, want := range []string{"3 alignments", "1 edges", "2 sweeps", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("stats line %q missing %q", line, want)
		}
	}
	if line := statsLine(3, 1, 0, false); strings.Contains(line, "sweeps") || !strings.Contains(line, iconFresh) {
		t.Errorf("stats line = %q", line)
	}
}

func TestPathListModel(t *testing.T) {
	m := NewPathListModel(&resultio.Document{Value: 201, Alignments: 3, Path: testSteps})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(PathListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down, want 1", m.Cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(PathListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d past the end, want 1", m.Cursor)
	}

	view := m.View()
	for _, want := range []string{"value 201", "EDGE_2_length_105_cov_5", "196-300"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(PathListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestPathListModel_Empty(t *testing.T) {
	m := NewPathListModel(&resultio.Document{})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(next.View(), "No alignments") {
		t.Errorf("empty view = %q", next.View())
	}
}

func TestCacheDir(t *testing.T) {
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}
