package xmlwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalWritesPrefixedTree(t *testing.T) {
	root := NewElement("Root")
	root.SetAttr("xmlns:otm", OTMNamespace)
	root.Add("Empty")
	root.AddText("Name", "a & b")

	out, err := Marshal(root, DefaultGenerateOptions())
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<otm:Root xmlns:otm="http://xmlns.oracle.com/apps/otm/transmission/v6.4">
  <otm:Empty/>
  <otm:Name>a &amp; b</otm:Name>
</otm:Root>
`
	assert.Equal(t, expected, string(out))
}

func TestMarshalWithoutDeclarationOrPrefix(t *testing.T) {
	root := NewElement("Root")
	root.AddText("gtm:Code", "X")

	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false
	opts.Prefix = ""

	out, err := Marshal(root, opts)
	require.NoError(t, err)
	assert.Equal(t, "<Root>\n  <gtm:Code>X</gtm:Code>\n</Root>\n", string(out))
}

func TestMarshalNilRoot(t *testing.T) {
	_, err := Marshal(nil, DefaultGenerateOptions())
	require.Error(t, err)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&apos;&amp;&apos;&lt;/a&gt;", escapeXML(`<a href="x">'&'</a>`))
	assert.Equal(t, "plain", escapeXML("plain"))
}
