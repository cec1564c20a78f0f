package format

import (
	"encoding"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/cafebabe/classfile"
)

var ErrUnknownFormat = errors.New("unknown format")

// Names lists the formats accepted by NewEncoder.
var Names = []string{"line", "json", "yaml"}

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *classfile.RawClassFile) error
}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	default:
		return nil, fmt.Errorf("%w: %s (expected line, json, or yaml)", ErrUnknownFormat, name)
	}
}
