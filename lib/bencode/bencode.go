package bencode

/*
A static-website torrent file generator.
Copyright (C) 2024 Haris Khan

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// Encode serializes a value into canonical bencode. Supported value types:
// string and []byte (byte strings), int/int64/uint64 (integers),
// []interface{} (lists) and map[string]interface{} (dictionaries).
// Dictionary keys are emitted in raw byte order, so the same logical value
// always produces the same exact bytes. The info hash depends on this.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case string:
		buf.WriteString(strconv.Itoa(len(val)))
		buf.WriteByte(':')
		buf.WriteString(val)
	case []byte:
		buf.WriteString(strconv.Itoa(len(val)))
		buf.WriteByte(':')
		buf.Write(val)
	case int:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		buf.WriteByte('e')
	case int64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(val, 10))
		buf.WriteByte('e')
	case uint64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatUint(val, 10))
		buf.WriteByte('e')
	case []interface{}:
		buf.WriteByte('l')
		for _, item := range val {
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('d')
		for _, k := range keys {
			if err := encodeValue(buf, k); err != nil {
				return err
			}
			if err := encodeValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	default:
		return fmt.Errorf("bencode: unsupported type %T", v)
	}
	return nil
}

// SyntaxError reports malformed input on the decode path, with the byte
// offset at which parsing failed.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

// Decode parses a single bencoded value. Byte strings decode as string,
// integers as int64, lists as []interface{} and dictionaries as
// map[string]interface{}. Trailing bytes after the value are an error.
func Decode(data []byte) (interface{}, error) {
	v, pos, err := decodeValue(data, 0)
	if err != nil {
		return nil, err
	}
	if pos != len(data) {
		return nil, &SyntaxError{Offset: pos, Msg: "trailing data after value"}
	}
	return v, nil
}

func decodeValue(data []byte, pos int) (interface{}, int, error) {
	if pos >= len(data) {
		return nil, pos, &SyntaxError{Offset: pos, Msg: "unexpected end of input"}
	}
	switch c := data[pos]; {
	case c == 'i':
		n, next, err := decodeInteger(data, pos)
		if err != nil {
			return nil, next, err
		}
		return n, next, nil
	case c >= '0' && c <= '9':
		s, next, err := decodeString(data, pos)
		if err != nil {
			return nil, next, err
		}
		return s, next, nil
	case c == 'l':
		l, next, err := decodeList(data, pos)
		if err != nil {
			return nil, next, err
		}
		return l, next, nil
	case c == 'd':
		d, next, err := decodeDict(data, pos)
		if err != nil {
			return nil, next, err
		}
		return d, next, nil
	default:
		return nil, pos, &SyntaxError{Offset: pos, Msg: fmt.Sprintf("unexpected byte %q", c)}
	}
}

func decodeInteger(data []byte, pos int) (int64, int, error) {
	end := bytes.IndexByte(data[pos:], 'e')
	if end < 0 {
		return 0, pos, &SyntaxError{Offset: pos, Msg: "integer missing terminator"}
	}
	end += pos
	n, err := strconv.ParseInt(string(data[pos+1:end]), 10, 64)
	if err != nil {
		return 0, pos, &SyntaxError{Offset: pos + 1, Msg: "invalid integer"}
	}
	return n, end + 1, nil
}

func decodeString(data []byte, pos int) (string, int, error) {
	colon := bytes.IndexByte(data[pos:], ':')
	if colon < 0 {
		return "", pos, &SyntaxError{Offset: pos, Msg: "string missing length separator"}
	}
	colon += pos
	length, err := strconv.Atoi(string(data[pos:colon]))
	if err != nil || length < 0 {
		return "", pos, &SyntaxError{Offset: pos, Msg: "invalid string length"}
	}
	start := colon + 1
	if start+length > len(data) {
		return "", pos, &SyntaxError{Offset: pos, Msg: "string truncated"}
	}
	return string(data[start : start+length]), start + length, nil
}

func decodeList(data []byte, pos int) ([]interface{}, int, error) {
	list := []interface{}{}
	pos++
	for {
		if pos >= len(data) {
			return nil, pos, &SyntaxError{Offset: pos, Msg: "list missing terminator"}
		}
		if data[pos] == 'e' {
			return list, pos + 1, nil
		}
		item, next, err := decodeValue(data, pos)
		if err != nil {
			return nil, pos, err
		}
		list = append(list, item)
		pos = next
	}
}

func decodeDict(data []byte, pos int) (map[string]interface{}, int, error) {
	dict := map[string]interface{}{}
	pos++
	for {
		if pos >= len(data) {
			return nil, pos, &SyntaxError{Offset: pos, Msg: "dictionary missing terminator"}
		}
		if data[pos] == 'e' {
			return dict, pos + 1, nil
		}
		key, next, err := decodeString(data, pos)
		if err != nil {
			return nil, pos, err
		}
		value, next, err := decodeValue(data, next)
		if err != nil {
			return nil, pos, err
		}
		dict[key] = value
		pos = next
	}
}
