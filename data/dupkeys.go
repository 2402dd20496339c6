package data

import (
	"bytes"
	stdjson "encoding/json"
	"strconv"
	"strings"
)

type dupFrame struct {
	object    bool
	keys      map[string]struct{}
	expectKey bool
	key       string
	index     int
}

// duplicateKey scans a JSON fragment for an object repeating a member name.
// It reports the JSON pointer of that object and the repeated name. Syntax
// errors end the scan without a result; decoding reports them.
func duplicateKey(b []byte) (ptr, key string, found bool) {
	dec := stdjson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var stack []dupFrame

	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return "", "", false
		}
		switch v := tok.(type) {
		case stdjson.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{object: true, keys: make(map[string]struct{}), expectKey: true})
			case '[':
				stack = append(stack, dupFrame{})
			default:
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					return pointer(stack[:n-1]), v, true
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
		if len(stack) == 0 && !dec.More() {
			return "", "", false
		}
	}
}

// pointer renders the JSON pointer of the value currently open in the
// innermost of frames.
func pointer(frames []dupFrame) string {
	if len(frames) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, f := range frames {
		b.WriteByte('/')
		if f.object {
			b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(f.key))
		} else {
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}
