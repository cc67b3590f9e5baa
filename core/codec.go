package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// requiredEntryKeys must be present on every item of a stored document.
var requiredEntryKeys = []string{
	"id", "title", "category", "tags", "content", "createdAt", "updatedAt", "author",
}

// EncodeDocument serializes the document to the canonical remote shape:
// pretty-printed UTF-8 JSON with categories and items always present as
// arrays, never null.
func EncodeDocument(doc *Document) ([]byte, error) {
	normalized := Document{
		Categories: doc.Categories,
		Items:      doc.Items,
	}
	if normalized.Categories == nil {
		normalized.Categories = []string{}
	}
	if normalized.Items == nil {
		normalized.Items = []Entry{}
	}

	data, err := json.MarshalIndent(&normalized, "", "  ")
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("encode document: %w", err)}
	}
	return data, nil
}

// DecodeDocument parses a stored document body.
//
// Malformed JSON yields a *DecodeError. A body that parses but lacks the
// categories or items arrays is reported as ErrDocumentNotFound: older or
// foreign payloads without the expected shape are treated like a missing
// object so the caller re-seeds instead of failing hard. That includes
// valid JSON that is not an object at all (an array, string or number).
func DecodeDocument(data []byte) (*Document, error) {
	var shape struct {
		Categories *[]string          `json:"categories"`
		Items      *[]json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrDocumentNotFound
		}
		return nil, &DecodeError{Err: err}
	}
	if shape.Categories == nil || shape.Items == nil {
		return nil, ErrDocumentNotFound
	}

	doc := &Document{
		Categories: *shape.Categories,
		Items:      make([]Entry, 0, len(*shape.Items)),
	}
	for i, raw := range *shape.Items {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("item %d is not an object: %w", i, err)}
		}
		for _, key := range requiredEntryKeys {
			if _, ok := keys[key]; !ok {
				return nil, &DecodeError{Err: fmt.Errorf("item %d is missing %q", i, key)}
			}
		}

		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("item %d: %w", i, err)}
		}
		doc.Items = append(doc.Items, entry)
	}
	return doc, nil
}
