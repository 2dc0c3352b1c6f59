package loader

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// decodeJSON parses a JSON binding file, keeping object order.
func decodeJSON(source string, data []byte) (*File, error) {
	if !gjson.ValidBytes(data) {
		err := fmt.Errorf("%w: malformed JSON", ErrInvalidEntry)
		return nil, &ParseError{Path: source, Message: "malformed JSON", Err: err}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		err := fmt.Errorf("%w: top level must be an object", ErrInvalidEntry)
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return buildFile(source, jsonValue(root).([]field))
}

func jsonValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		var fields []field
		r.ForEach(func(k, v gjson.Result) bool {
			fields = append(fields, field{name: k.String(), value: jsonValue(v)})
			return true
		})
		if fields == nil {
			fields = []field{}
		}
		return fields
	case r.IsArray():
		elems := r.Array()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = jsonValue(e)
		}
		return out
	}
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Num
	case gjson.True, gjson.False:
		return r.Bool()
	}
	return nil
}
