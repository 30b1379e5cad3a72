// Package jsonl persists documents as one JSON object per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/corpuskit/harvester/internal/crawler"
)

// Sink appends serialized documents to a JSONL file. Writes are buffered;
// Close flushes. Any write error is fatal to the run: already-written lines
// are kept (at-least-once persistence, not transactional).
type Sink struct {
	file   *os.File
	writer *bufio.Writer
	path   string
	logger *zap.Logger
}

// New opens (or creates) the output file for appending.
func New(path string, logger *zap.Logger) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create output dir for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}
	return &Sink{
		file:   file,
		writer: bufio.NewWriter(file),
		path:   path,
		logger: logger,
	}, nil
}

// Emit writes one document as a single JSON line.
func (s *Sink) Emit(ctx context.Context, doc crawler.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}
	if _, err := s.writer.Write(payload); err != nil {
		return fmt.Errorf("write document %s to %s: %w", doc.ID, s.path, err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write document %s to %s: %w", doc.ID, s.path, err)
	}
	return nil
}

// Close flushes buffered lines and closes the file.
func (s *Sink) Close() error {
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.logger.Info("output file closed", zap.String("path", s.path))
	return nil
}
