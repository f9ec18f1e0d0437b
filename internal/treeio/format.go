package treeio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the wire encoding of a tree document.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "auto"
	}
}

// ParseFormat maps the textual flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("unknown tree format %q (want json or msgpack)", s)
	}
}

// DetectFormat resolves FormatAuto from the file extension, defaulting to
// JSON for anything unrecognized.
func DetectFormat(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack", ".bin":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}
