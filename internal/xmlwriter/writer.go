// =============================================================================
// OTM Order Generator - XML Writer Module
// =============================================================================
//
// This module holds the generic element tree and the serializer used by the
// Release and TransOrder builders. Documents are assembled as a tree of
// Element values and written with a single namespace prefix, an optional XML
// declaration and fixed indentation.
//
// XML STRUCTURE:
//   <?xml version="1.0" encoding="UTF-8"?>
//   <otm:Transmission xmlns:otm="..." xmlns:gtm="...">
//     <otm:TransmissionHeader/>
//     <otm:TransmissionBody>
//       <otm:GLogXMLElement>
//         ...                          <!-- Release or TransOrder -->
//       </otm:GLogXMLElement>
//     </otm:TransmissionBody>
//   </otm:Transmission>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML serialization.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// Prefix is the namespace prefix written in front of every element name.
	// Default: "otm"
	Prefix string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		Prefix:                "otm",
	}
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Attr is a single attribute. Attributes keep insertion order so output is
// stable.
type Attr struct {
	Name  string
	Value string
}

// Element represents a generic XML element.
// An element carries either a text value or children, never both.
type Element struct {
	Name       string
	Attributes []Attr
	Value      string
	Children   []*Element
}

// NewElement creates an element with the given local name.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// Add appends an empty child element and returns it.
func (e *Element) Add(name string) *Element {
	child := NewElement(name)
	e.Children = append(e.Children, child)
	return child
}

// AddText appends a child element with a text value and returns it.
func (e *Element) AddText(name, value string) *Element {
	child := e.Add(name)
	child.Value = value
	return child
}

// SetAttr appends an attribute.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attributes = append(e.Attributes, Attr{Name: name, Value: value})
	return e
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Marshal serializes the tree rooted at root using the given options.
func Marshal(root *Element, options GenerateOptions) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("failed to marshal XML: nil root element")
	}

	var buffer bytes.Buffer

	// Write XML declaration if requested.
	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	writeElement(&buffer, root, options, 0)

	return buffer.Bytes(), nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element *Element, options GenerateOptions, level int) {
	name := qualify(element.Name, options.Prefix)

	writeIndent(buffer, options.Indent, level)

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(name)

	// Write attributes.
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name, escapeXML(attr.Value)))
	}

	// Self-closing tag for empty elements.
	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, options, level+1)
		}

		writeIndent(buffer, options.Indent, level)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(name)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

func qualify(name, prefix string) string {
	if prefix == "" || strings.Contains(name, ":") {
		return name
	}
	return prefix + ":" + name
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
