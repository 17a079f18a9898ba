// Package archive appends every published revision to a zstd-compressed
// JSONL audit trail, one file per day.
package archive

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Record is one published page revision.
type Record struct {
	RunID   string `json:"run_id"`
	Page    string `json:"page"`
	Summary string `json:"summary"`
	Text    string `json:"text"`
	Time    string `json:"time"`
}

type Writer struct {
	baseDir string

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := time.Now().UTC().Format("2006-01-02")
	if day != w.curDay {
		if err := w.rotateLocked(day); err != nil {
			return err
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(day string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForDay(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.curDay = day
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriter(enc)
	return nil
}

func (w *Writer) closeLocked() error {
	if w.f == nil {
		return nil
	}
	var firstErr error
	if err := w.w.Flush(); err != nil {
		firstErr = err
	}
	if err := w.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := w.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	w.curDay = ""
	w.f = nil
	w.enc = nil
	w.w = nil
	return firstErr
}

func (w *Writer) pathForDay(day string) string {
	return filepath.Join(w.baseDir, "publishes-"+day+".jsonl.zst")
}
