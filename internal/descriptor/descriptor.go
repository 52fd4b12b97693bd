// Package descriptor edits package.json files as open key-value documents.
//
// Only top-level keys are modelled. Edits are spliced into the raw JSON, so
// keys the tool does not know about survive untouched and in their original
// order.
package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ScaffoldKeys are template-only keys dropped from generated projects.
var ScaffoldKeys = []string{"author", "keywords", "repository", "license", "bin", "files"}

// Document is an ordered JSON object.
type Document struct {
	data []byte
}

// Field is a key to set and its value.
type Field struct {
	Key   string
	Value any
}

// Update is a partial update: Set runs before Delete.
type Update struct {
	Set    []Field
	Delete []string
}

// ProjectUpdate renames the package, resets its version and strips the
// template's publishing metadata.
func ProjectUpdate(name, version string) Update {
	return Update{
		Set: []Field{
			{Key: "name", Value: name},
			{Key: "version", Value: version},
		},
		Delete: ScaffoldKeys,
	}
}

// Parse decodes a JSON object, keeping key order.
// Duplicate keys collapse to their last occurrence.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parsing package descriptor: invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("parsing package descriptor: top level value is not an object")
	}

	doc := &Document{data: bytes.Clone(data)}

	counts := make(map[string]int)
	for _, key := range doc.keys() {
		counts[key]++
	}
	for key, n := range counts {
		// sjson edits the first match, so this leaves the last one
		for ; n > 1; n-- {
			if err := doc.Delete(key); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// keys returns the top-level keys in document order.
func (d *Document) keys() []string {
	var keys []string
	gjson.ParseBytes(d.data).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Set stores value under key. Existing keys keep their position; new keys
// are appended.
func (d *Document) Set(key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	out, err := sjson.SetRawBytes(d.data, gjson.Escape(key), raw)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	d.data = out
	return nil
}

// Delete removes key. Missing keys are not an error.
func (d *Document) Delete(key string) error {
	out, err := sjson.DeleteBytes(d.data, gjson.Escape(key))
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	d.data = out
	return nil
}

// Apply runs an update against the document.
func (d *Document) Apply(u Update) error {
	for _, f := range u.Set {
		if err := d.Set(f.Key, f.Value); err != nil {
			return err
		}
	}
	for _, key := range u.Delete {
		if err := d.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// MarshalIndent encodes the document with 2-space indentation and no
// trailing newline.
func (d *Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(d.data), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting package descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// encode marshals v without HTML escaping, matching what npm writes.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RewriteFile applies u to the descriptor at path in place.
func RewriteFile(path string, u Update) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading package descriptor: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading package descriptor: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return err
	}
	if err := doc.Apply(u); err != nil {
		return err
	}

	out, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing package descriptor: %w", err)
	}
	return nil
}
