// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func parseXML(t *testing.T, input string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	doc.ReadSettings = newReadSettings(true)
	if err := doc.ReadFromString(input); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestExtractStyles(t *testing.T) {
	doc := parseXML(t, `<html xmlns="http://www.w3.org/1999/xhtml">
<head><style>
  body { margin: 0; }
</style></head>
<body>
<p id="intro" style="color:blue">a</p>
<div class="note wide" style="border:none">b</div>
</body>
</html>`)

	styles := ExtractStyles(doc)
	want := []string{
		"body { margin: 0; }",
		"#intro { color:blue }",
		"div.note.wide { border:none }",
	}
	if len(styles) != len(want) {
		t.Fatalf("got %d styles %v, want %d", len(styles), styles, len(want))
	}
	for i, w := range want {
		if styles[i] != w {
			t.Errorf("styles[%d] = %q, want %q", i, styles[i], w)
		}
	}
}

func TestExtractStyles_EmptyStyleTagIgnored(t *testing.T) {
	doc := parseXML(t, `<html><head><style>  </style></head><body/></html>`)
	if styles := ExtractStyles(doc); len(styles) != 0 {
		t.Errorf("got %v, want no styles", styles)
	}
}

func TestUniqueSelector(t *testing.T) {
	doc := parseXML(t, `<html>
<body>
<p id="lead" class="x">one</p>
<p class="big red">two</p>
<p>three</p>
<p>four</p>
<div><span>solo</span></div>
</body>
</html>`)

	tests := []struct {
		name string
		pick func() *etree.Element
		want string
	}{
		{
			name: "id wins",
			pick: func() *etree.Element { return findElements(doc.Root(), "p")[0] },
			want: "#lead",
		},
		{
			name: "classes qualify the tag",
			pick: func() *etree.Element { return findElements(doc.Root(), "p")[1] },
			want: "p.big.red",
		},
		{
			name: "path with nth-child for repeated tags",
			pick: func() *etree.Element { return findElements(doc.Root(), "p")[2] },
			want: "html > body > p:nth-child(3)",
		},
		{
			name: "plain path for unique tags",
			pick: func() *etree.Element { return findElements(doc.Root(), "span")[0] },
			want: "html > body > div > span",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueSelector(tt.pick()); got != tt.want {
				t.Errorf("uniqueSelector() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueSelector_IgnoresPrefixes(t *testing.T) {
	doc := parseXML(t, `<html xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<body><ix:nonFraction style="color:red">1</ix:nonFraction></body></html>`)

	styles := ExtractStyles(doc)
	if len(styles) != 1 {
		t.Fatalf("got %v, want one style", styles)
	}
	if !strings.HasPrefix(styles[0], "html > body > nonFraction") {
		t.Errorf("selector uses prefixed tag: %q", styles[0])
	}
}
