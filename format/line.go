package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cafebabe/classfile"
)

// LineEncoder prints the header summary and one line per usable pool slot,
// laid out like javap -v.
type LineEncoder struct {
	w     io.Writer
	class *classfile.RawClassFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *classfile.RawClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class
	cp := c.ConstantPool

	this := resolveClass(cp, c.ThisClass)
	if this.Name != "" {
		fmt.Fprintf(&sb, "class %s\n", this.Name)
	} else {
		fmt.Fprintf(&sb, "class %s\n", ref(c.ThisClass))
	}
	fmt.Fprintf(&sb, "  minor version: %d\n", c.MinorVersion)
	fmt.Fprintf(&sb, "  major version: %d\n", c.MajorVersion)
	fmt.Fprintf(&sb, "  flags: %s\n", c.AccessFlags)
	sb.WriteString(classLine("this_class", this))
	if c.SuperClass == 0 {
		sb.WriteString("  super_class: #0\n")
	} else {
		sb.WriteString(classLine("super_class", resolveClass(cp, c.SuperClass)))
	}
	fmt.Fprintf(&sb, "  interfaces: %d\n", len(c.Interfaces))
	for _, idx := range c.Interfaces {
		r := resolveClass(cp, idx)
		if r.Name == "" {
			fmt.Fprintf(&sb, "    %s\n", ref(idx))
		} else {
			fmt.Fprintf(&sb, "    %s // %s\n", ref(idx), r.Name)
		}
	}

	sb.WriteString("Constant pool:\n")
	for _, item := range constItems(cp) {
		sb.WriteString(poolLine(item))
	}

	return []byte(sb.String()), nil
}

func classLine(label string, r classRef) string {
	if r.Name == "" {
		return fmt.Sprintf("  %s: %s\n", label, ref(r.Index))
	}
	return fmt.Sprintf("  %s: %s // %s\n", label, ref(r.Index), r.Name)
}

func poolLine(item constItem) string {
	line := fmt.Sprintf("%5s = %-18s %s", ref(item.Index), item.Tag, item.Value)
	if item.Resolved != "" {
		line = fmt.Sprintf("%5s = %-18s %-14s // %s", ref(item.Index), item.Tag, item.Value, item.Resolved)
	}
	return strings.TrimRight(line, " ") + "\n"
}
