// Package extract parses the batch input files: the pipe-delimited trial
// sponsor table and the streamed openFDA drug application records.
package extract

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// streamDelimited reads delimiter-separated rows and invokes fn with the
// header-mapped fields of each data row. Rows with a field count that
// does not match the header are skipped.
func streamDelimited(ctx context.Context, r io.Reader, delimiter rune, fn func(row map[string]string) error) error {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return eris.Wrap(err, "extract: read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	for {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "extract: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "extract: read row")
		}
		if len(record) != len(header) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, field := range record {
			row[header[i]] = strings.TrimSpace(field)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// decodeArrayAt streams the JSON array found at the named top-level key,
// sending each element to fn without materializing the whole document.
func decodeArrayAt[T any](ctx context.Context, r io.Reader, key string, fn func(item T) error) error {
	decoder := json.NewDecoder(r)

	// Opening brace of the document object.
	tok, err := decoder.Token()
	if err != nil {
		return eris.Wrap(err, "extract: read opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("extract: expected '{', got %v", tok)
	}

	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return eris.Wrap(err, "extract: read object key")
		}
		name, ok := tok.(string)
		if !ok {
			return eris.Errorf("extract: expected object key, got %v", tok)
		}

		if name != key {
			// Skip the value of an uninteresting key.
			var skip json.RawMessage
			if err := decoder.Decode(&skip); err != nil {
				return eris.Wrapf(err, "extract: skip key %q", name)
			}
			continue
		}

		// Opening bracket of the target array.
		tok, err = decoder.Token()
		if err != nil {
			return eris.Wrap(err, "extract: read array token")
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return eris.Errorf("extract: expected '[' at %q, got %v", key, tok)
		}

		for decoder.More() {
			if ctx.Err() != nil {
				return eris.Wrap(ctx.Err(), "extract: context cancelled")
			}
			var item T
			if err := decoder.Decode(&item); err != nil {
				return eris.Wrap(err, "extract: decode element")
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}

	return eris.Errorf("extract: key %q not found", key)
}
