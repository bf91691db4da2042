// Package export writes finished simulation summaries to files and streams.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/nvandessel/leach/internal/report"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names an encoding for a Summary.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
	FormatCBOR    Format = "cbor"
)

// ErrUnknownFormat is returned for a format name with no codec.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every supported encoding.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMsgpack, FormatCBOR}
}

// ParseFormat maps a case-insensitive name ("yml" is accepted) to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatMsgpack || f == FormatCBOR
}

var cborEnc = func() cbor.EncMode {
	em, err := cbor.EncOptions{
		Time:        cbor.TimeRFC3339Nano,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode writes s to w in the given format.
func Encode(w io.Writer, f Format, s report.Summary) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(&s)
	case FormatCBOR:
		return cborEnc.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode reads a Summary previously written by Encode.
func Decode(r io.Reader, f Format) (report.Summary, error) {
	var s report.Summary
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&s)
	case FormatCBOR:
		err = cbor.NewDecoder(r).Decode(&s)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return report.Summary{}, fmt.Errorf("decoding %s summary: %w", f, err)
	}
	return s, nil
}
