package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/cafebabe/classfile"
)

type JSONEncoder struct {
	w     io.Writer
	class *classfile.RawClassFile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *classfile.RawClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildDocument(e.class), "", "  ")
}
