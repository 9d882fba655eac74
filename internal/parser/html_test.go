package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_BlockElementsBecomeLines(t *testing.T) {
	input := `<html><head><title>Ignored</title><style>p{}</style></head>
<body>
<h1>SUMMARY</h1>
<p>Some   text
 here</p>
<ul><li>one</li><li>two</li></ul>
<script>var x = 1;</script>
<div><h2>FINDINGS</h2><p>a<br>b</p></div>
</body></html>`

	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SUMMARY\nSome text here\none\ntwo\nFINDINGS\na b\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLParser_PreKeepsLines(t *testing.T) {
	p := &HTMLParser{}
	got, err := p.Parse(strings.NewReader("<body><pre>TITLE\n  indented\n</pre></body>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "TITLE\n  indented\n" {
		t.Errorf("unexpected output %q", got)
	}
}
