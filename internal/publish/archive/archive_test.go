package archive

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	recs := []Record{
		{RunID: "run-1", Page: "Lusitania (CivMC)", Summary: "Updated interactive map", Text: "markup"},
		{RunID: "run-1", Page: "Icenia (CivMC)", Summary: "Updated land ownership table", Text: "table"},
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "publishes-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("archive files %v err=%v", matches, err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var got []Record
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal %q: %v", sc.Text(), err)
		}
		got = append(got, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0].Page != recs[0].Page || got[1].Summary != recs[1].Summary {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}
