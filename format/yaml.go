package format

import (
	"io"

	"github.com/dhamidi/cafebabe/classfile"
	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w     io.Writer
	class *classfile.RawClassFile
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(class *classfile.RawClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	return yaml.Marshal(buildDocument(e.class))
}
