package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromXMLShapes(t *testing.T) {
	doc, err := FromXML([]byte(`<?xml version="1.0" encoding="utf-8"?>
<root>
  <feedbacks><standard><resultcount> 2 </resultcount></standard></feedbacks>
  <results>
    <record id="a" src="cambrdgedb"><title>One</title></record>
    <record id="b"><title>Two</title><title>Deux</title></record>
  </results>
  <single extID="x">text</single>
</root>`))
	require.NoError(t, err)

	root := doc.Get("root")
	require.Equal(t, KindObject, root.Kind())

	count, ok := root.Path("feedbacks", "standard", "resultcount").Int()
	require.True(t, ok)
	assert.Equal(t, 2, count)

	records := root.Path("results", "record")
	assert.Equal(t, KindSequence, records.Kind())
	require.Len(t, records.Items(), 2)

	first := records.First()
	assert.Equal(t, "a", first.Get("id").String())
	assert.Equal(t, KindScalar, first.Get("title").Kind())
	assert.Equal(t, []string{"Two", "Deux"}, records.Items()[1].Get("title").Strings())

	single := root.Get("single")
	assert.Equal(t, "x", single.Get("extID").String())
	assert.Equal(t, "text", single.String())
}

func TestFromXMLLatin1(t *testing.T) {
	doc, err := FromXML([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><root><title>P\xe9rez</title></root>"))
	require.NoError(t, err)
	assert.Equal(t, "Pérez", doc.Path("root", "title").String())
}

func TestFromXMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unclosed", input: "<root><a></root>"},
		{name: "garbage", input: "not xml at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromXML([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestFromJSON(t *testing.T) {
	doc, err := FromJSON([]byte(`{
		"recordCount": 12,
		"documents": [{"Title": ["A <h>title</h>"], "ID": "x", "Missing": null, "Flag": true}],
		"empty": []
	}`))
	require.NoError(t, err)

	n, ok := doc.Get("recordCount").Int()
	require.True(t, ok)
	assert.Equal(t, 12, n)

	d := doc.Get("documents").First()
	assert.Equal(t, []string{"A <h>title</h>"}, d.Get("Title").Strings())
	assert.Equal(t, []string{"x"}, d.Get("ID").Strings())
	assert.False(t, d.Get("Missing").Present())
	assert.Equal(t, "true", d.Get("Flag").String())
	assert.Equal(t, []string{"Title", "ID", "Missing", "Flag"}, d.Keys())

	assert.Nil(t, doc.Get("empty").Strings())
	assert.False(t, doc.Get("empty").First().Present())
}

func TestFromJSONRejectsTrailingData(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestAbsentChaining(t *testing.T) {
	var n *Node
	assert.False(t, n.Present())
	assert.False(t, Absent().Path("a", "b", "c").Present())
	assert.Nil(t, Absent().Items())
	_, ok := Absent().Int()
	assert.False(t, ok)
}

func TestItemsNormalizesScalar(t *testing.T) {
	obj := NewObject().Set("kw", NewScalar("only"))
	assert.Equal(t, []string{"only"}, obj.Get("kw").Strings())
	assert.Equal(t, 1, obj.Get("kw").Len())
}
