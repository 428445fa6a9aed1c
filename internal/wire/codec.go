package wire

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"sync"
)

// Preamble is the processing instruction prefixed to every document on
// the network. Logs use the preamble-free element form.
const Preamble = `<?xml version="1.0" encoding="UTF-8"?>`

const (
	// MaxDepth limits element nesting in parsed documents. Deeper
	// input is rejected as malformed before it can exhaust the stack.
	MaxDepth = 256

	// MaxMessageBytes bounds how much of a single message the parser
	// consumes, and with it the replay buffer kept for error dumps.
	MaxMessageBytes = 1 << 20
)

// streamParser owns the scratch buffer that records consumed input so
// a failed parse can dump the offending bytes. The buffer is shared
// across all connections, so every parse acquires the mutex for the
// duration of the call.
type streamParser struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

var parser streamParser

// Parse reads one document from r. On failure the consumed input is
// preserved in the returned MalformedError for diagnostics.
func Parse(r io.Reader) (*Document, error) {
	parser.mu.Lock()
	defer parser.mu.Unlock()

	parser.buf.Reset()
	tee := io.TeeReader(io.LimitReader(r, MaxMessageBytes), &parser.buf)
	root, err := decodeTree(tee)
	if err != nil {
		return nil, &MalformedError{Raw: parser.buf.String(), Err: err}
	}
	return builder.build(root), nil
}

// ParseString reads one document from its text form.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// decodeTree consumes tokens into an element tree. Only elements,
// whitespace, comments and processing instructions are accepted; text
// content and DTD directives are malformed in this format.
func decodeTree(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if root == nil {
				return nil, errEmptyInput
			}
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, errTrailingContent
			}
			if len(stack) >= MaxDepth {
				return nil, errTooDeep
			}
			el := newRawElement(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, errTextContent
			}
		case xml.Comment, xml.ProcInst:
			// Skipped. The network preamble arrives as a ProcInst.
		case xml.Directive:
			return nil, errDirective
		}
	}
}

// Serialize renders el as compact text without a preamble. Attributes
// are written in sorted order, so equal trees serialize identically.
func Serialize(el *Element) string {
	var sb strings.Builder
	writeElement(&sb, el)
	return sb.String()
}

func writeElement(sb *strings.Builder, el *Element) {
	sb.WriteByte('<')
	sb.WriteString(el.tag)
	for _, k := range el.AttrNames() {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(el.attrs[k]))
		sb.WriteByte('"')
	}
	if len(el.children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for _, c := range el.children {
		writeElement(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(el.tag)
	sb.WriteByte('>')
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
