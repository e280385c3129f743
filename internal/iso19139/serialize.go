package iso19139

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const xmlDeclaration = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

// Serialize renders the tree as indented UTF-8 bytes: XML declaration with
// explicit encoding, 2-space indentation, attributes in insertion order,
// trailing newline. The output is a pure function of the tree, so identical
// trees always yield byte-identical documents.
func Serialize(root *Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	writeElement(&buf, root, 0)
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag())
	for _, attr := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attr.Name)
		buf.WriteString(`="`)
		escapeText(buf, attr.Value)
		buf.WriteByte('"')
	}

	switch {
	case len(e.Children) > 0:
		buf.WriteString(">\n")
		for _, child := range e.Children {
			writeElement(buf, child, depth+1)
		}
		buf.WriteString(indent)
		buf.WriteString("</")
		buf.WriteString(e.Tag())
		buf.WriteString(">\n")
	case e.Text != "":
		buf.WriteByte('>')
		escapeText(buf, e.Text)
		buf.WriteString("</")
		buf.WriteString(e.Tag())
		buf.WriteString(">\n")
	default:
		buf.WriteString("/>\n")
	}
}

// escapeText applies standard XML escaping. encoding/xml escapes quotes and
// newlines too, which keeps attribute values safe with the same helper.
func escapeText(buf *bytes.Buffer, s string) {
	// EscapeText on a bytes.Buffer cannot fail.
	_ = xml.EscapeText(buf, []byte(s))
}
