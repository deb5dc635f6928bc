// Package digest provides the canonical encoding and hashing used to link
// blocks together in the ledger.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"reflect"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is returned when a value
// can't be encoded.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrInvalidUTF8 is returned when a value holds a string that is not valid
// UTF-8. The JSON encoder would replace the bad bytes with U+FFFD, so two
// different values could share an encoding and therefore a hash.
var ErrInvalidUTF8 = errors.New("string is not valid utf-8")

// =============================================================================

// Hash returns a unique string for the value. The value is first reduced to
// its canonical encoding so two values with the same fields produce the same
// hash regardless of the order those fields are declared or constructed in.
func Hash(value any) string {
	hash, err := Sum(value)
	if err != nil {
		return ZeroHash
	}
	return hash
}

// Sum is like Hash but reports why the value could not be encoded instead
// of returning ZeroHash. Validation uses it so a value that can't be encoded
// is never mistaken for one that hashes to ZeroHash.
func Sum(value any) (string, error) {
	data, err := Canonical(value)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:]), nil
}

// Canonical produces the sorted-key JSON encoding of the value. The value is
// marshaled, decoded into generic maps and slices, and marshaled again. The
// JSON encoder writes map keys in sorted order which removes any dependency
// on struct field order. Values holding strings that are not valid UTF-8
// are rejected with ErrInvalidUTF8.
func Canonical(value any) ([]byte, error) {
	if !validUTF8(reflect.ValueOf(value)) {
		return nil, ErrInvalidUTF8
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Numbers must survive the round trip exactly, so don't let them
	// become float64 values.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}

// validUTF8 walks the value the way the JSON encoder would and reports
// whether every string it would encode is valid UTF-8.
func validUTF8(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return utf8.ValidString(v.String())

	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return validUTF8(v.Elem())

	case reflect.Struct:
		t := v.Type()
		for i := range v.NumField() {
			if t.Field(i).IsExported() && !validUTF8(v.Field(i)) {
				return false
			}
		}

	case reflect.Slice, reflect.Array:

		// Byte slices are encoded as base64.
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return true
		}
		for i := range v.Len() {
			if !validUTF8(v.Index(i)) {
				return false
			}
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !validUTF8(iter.Key()) || !validUTF8(iter.Value()) {
				return false
			}
		}
	}

	return true
}
