package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/hiermodel/internal/config"
)

// ErrUnknownFormat is returned for a format outside config.Formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Options control Write and WriteFiles.
type Options struct {
	Format string
	// Color enables ANSI colours in the summary format.
	Color bool
}

// Write encodes docs to w as a single stream: a JSON array, a YAML
// sequence, a MessagePack array or consecutive summaries.
func Write(w io.Writer, docs []*Document, opts Options) error {
	switch opts.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		return enc.Encode(docs)
	case config.FormatSummary, "":
		s := NewSummary(opts.Color)
		for _, doc := range docs {
			if err := s.Write(w, doc); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case config.FormatJSON:
		return ".json"
	case config.FormatYAML:
		return ".yaml"
	case config.FormatMsgpack:
		return ".msgpack"
	default:
		return ".txt"
	}
}

// WriteFiles writes one file per document into dir, named after the
// model, and returns the paths written. dir is created when missing.
func WriteFiles(dir string, docs []*Document, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	// Files never carry escape codes.
	opts.Color = false

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Name+Extension(opts.Format))
		if err := writeFile(path, doc, opts); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, doc *Document, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// A per-model file holds the document itself, not a one-element list.
	switch opts.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case config.FormatYAML:
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatMsgpack:
		return msgpack.NewEncoder(f).Encode(doc)
	default:
		return Write(f, []*Document{doc}, opts)
	}
}
