package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeLines(t *testing.T) {
	input := `# REPORT TITLE

Intro text.

## SUMMARY

Line one
line two

- item one
- item two
`
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "REPORT TITLE\nIntro text.\nSUMMARY\nLine one\nline two\nitem one\nitem two\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownParser_CodeBlocks(t *testing.T) {
	input := "## ENDPOINTS\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"ENDPOINTS\n", "GET /api/users\n", "POST /api/users\n", "More text after code.\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
	if strings.Contains(got, "```") {
		t.Errorf("expected fences to be dropped, got %q", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	got, err := p.Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
