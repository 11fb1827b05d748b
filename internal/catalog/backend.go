package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Transport supplies the raw text I/O the file backend runs on. The core
// never opens files itself; the application root injects either the OS
// transport or a test double.
type Transport interface {
	ReadText(path string) (string, error)
	WriteText(path, text string) error
}

// OSTransport is the production Transport, backed by the local filesystem.
type OSTransport struct{}

func (OSTransport) ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (OSTransport) WriteText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

// Backend persists the template collection as one document.
type Backend interface {
	Load() (Collection, error)
	Save(Collection) error
	Close() error
}

// fileBackend keeps the collection in a single indented JSON document at a
// fixed path.
type fileBackend struct {
	transport Transport
	path      string
}

// NewFileBackend returns a Backend that reads and writes one JSON document
// through the given transport.
func NewFileBackend(transport Transport, path string) Backend {
	return &fileBackend{transport: transport, path: path}
}

func (b *fileBackend) Load() (Collection, error) {
	text, err := b.transport.ReadText(b.path)
	if err != nil {
		return Collection{}, fmt.Errorf("read %s: %w", b.path, err)
	}
	var c Collection
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return Collection{}, fmt.Errorf("decode %s: %w", b.path, err)
	}
	return c, nil
}

func (b *fileBackend) Save(c Collection) error {
	text, err := encodeCollection(c)
	if err != nil {
		return err
	}
	return b.transport.WriteText(b.path, text)
}

func (b *fileBackend) Close() error { return nil }

func encodeCollection(c Collection) (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return string(out), nil
}

func decodeCollection(text string) (Collection, error) {
	var c Collection
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return Collection{}, fmt.Errorf("decode collection: %w", err)
	}
	return c, nil
}
