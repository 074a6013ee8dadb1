package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// FromJSON decodes a JSON payload. Objects keep their key order, null becomes
// absent and numbers and booleans become scalars.
func FromJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse json: trailing data")
	}
	return node, nil
}

func decodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			seq := NewSequence()
			for dec.More() {
				child, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				seq.items = append(seq.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case string:
		return NewScalar(v), nil
	case json.Number:
		return NewScalar(v.String()), nil
	case bool:
		return NewScalar(strconv.FormatBool(v)), nil
	case nil:
		return absent, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
