package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteSVG serialises the scene as a standalone SVG document.
func (s *Scene) WriteSVG(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`,
		FormatFloat(s.width), FormatFloat(s.height)))
	b.WriteString("\n")
	for _, c := range s.root.children {
		writeElement(&b, c, 1)
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SVG returns the serialised scene.
func (s *Scene) SVG() string {
	var b strings.Builder
	_ = s.WriteSVG(&b)
	return b.String()
}

func writeElement(b *strings.Builder, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(string(e.kind))
	if e.id != "" {
		writeAttr(b, "id", e.id)
	}
	if e.class != "" {
		writeAttr(b, "class", e.class)
	}

	names := make([]string, 0, len(e.attrs))
	for n := range e.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		writeAttr(b, n, e.attrs[n])
	}

	if len(e.children) == 0 && e.text == "" {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">")
	if e.text != "" {
		_ = xml.EscapeText(b, []byte(e.text))
	}
	if len(e.children) > 0 {
		b.WriteString("\n")
		for _, c := range e.children {
			writeElement(b, c, depth+1)
		}
		b.WriteString(indent)
	}
	b.WriteString("</")
	b.WriteString(string(e.kind))
	b.WriteString(">\n")
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString(`"`)
}
