package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
)

// Export writes the full collection as one JSON document to the given
// path.
func (s *Store) Export(transport Transport, path string) error {
	s.mu.Lock()
	text, err := encodeCollection(s.collection.clone())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := transport.WriteText(path, text); err != nil {
		return fmt.Errorf("export collection: %w", err)
	}
	return nil
}

// Import reads a collection document from path. With merge=false the whole
// stored collection is replaced by the imported one. With merge=true every
// imported template is appended under a freshly generated ID and a
// uniqueness-resolved name, so foreign data can never collide with what is
// already stored.
func (s *Store) Import(transport Transport, path string, merge bool) error {
	text, err := transport.ReadText(path)
	if err != nil {
		return fmt.Errorf("import collection: %w", err)
	}
	imported, err := decodeCollection(text)
	if err != nil {
		return fmt.Errorf("import collection: %w", err)
	}

	s.mu.Lock()
	if merge {
		for _, t := range imported.Templates {
			t = t.Clone()
			t.ID = uuid.NewString()
			t.Name = s.uniqueName(t.Name)
			s.collection.Templates = append(s.collection.Templates, t)
			s.notifier.TemplateAdded(t.Clone())
		}
	} else {
		s.collection = imported.clone()
	}
	s.persist()
	s.mu.Unlock()

	s.notifier.CollectionChanged()
	return nil
}

// ExportToClipboard copies one template's JSON to the system clipboard.
func (s *Store) ExportToClipboard(id string) error {
	t, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("template %s not found", id)
	}
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return clipboard.WriteAll(string(out))
}
