package alignment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadReport parses a tabular alignment report. Blank lines and comment
// lines starting with '#' are skipped. The first malformed line aborts the
// read with a [*MalformedRecordError] carrying its line number.
func ReadReport(r io.Reader, opts ParseOptions) ([]*Record, error) {
	var records []*Record

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseRecord(line, lineNo, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return records, nil
}

// ImportReport reads the report file at path.
func ImportReport(path string, opts ParseOptions) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadReport(f, opts)
	if err != nil {
		var mre *MalformedRecordError
		if errors.As(err, &mre) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return records, nil
}

// Filter keeps the valid, forward-oriented records, preserving order.
func Filter(records []*Record, threshold float64) []*Record {
	var out []*Record
	for _, r := range records {
		if r.Forward && r.Valid(threshold) {
			out = append(out, r)
		}
	}
	return out
}
