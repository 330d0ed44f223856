// Package codec encodes bundles and decodes calculation input documents.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatMsgpack}

// ParseFormat parses a format name case-insensitively. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "cannot parse format"), "format", s)
	}
}

// Encode writes v to w in format. JSON is indented and map keys are sorted in every
// format, so equal values encode to equal bytes.
func Encode(w io.Writer, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = encodeMsgpack(w, v)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "cannot encode"), "format", string(format))
	}
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrEncodeFailed, err), "cannot encode"), "format", string(format))
	}
	return nil
}

// encodeMsgpack encodes v twice. The encoder only sorts the keys of generic maps, so
// the first pass is decoded into generic values and the second pass writes those with
// sorted keys.
func encodeMsgpack(w io.Writer, v any) error {
	var raw bytes.Buffer
	if err := newMsgpackEncoder(&raw).Encode(v); err != nil {
		return err
	}

	var tree any
	if err := msgpack.NewDecoder(&raw).Decode(&tree); err != nil {
		return err
	}
	return newMsgpackEncoder(w).Encode(tree)
}

func newMsgpackEncoder(w io.Writer) *msgpack.Encoder {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	return enc
}

// DecodeInputs parses a JSON or YAML input document. The document must be a mapping.
func DecodeInputs(data []byte) (domain.Inputs, error) {
	var inputs domain.Inputs
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&inputs); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Inputs{}, nil
		}
		return nil, zerr.Wrap(errors.Join(domain.ErrInputDecodeFailed, err), "cannot parse inputs")
	}
	if inputs == nil {
		inputs = domain.Inputs{}
	}
	return inputs, nil
}
