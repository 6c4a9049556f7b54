package toolcall

import (
	"strings"
	"testing"
)

func TestFenced_Extract(t *testing.T) {
	f := &Fenced{}

	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name:    "plain call",
			content: "```tool_code\nget_weather(\"beijing\")\n```",
			want:    `get_weather("beijing")`,
			wantOK:  true,
		},
		{
			name:    "print wrapped",
			content: "```tool_code\nprint(f(1,2))\n```",
			want:    "f(1,2)",
			wantOK:  true,
		},
		{
			name:    "surrounding prose",
			content: "Let me check.\n```tool_code\nprint(get_weather(\"sf\"))\n```\nDone.",
			want:    `get_weather("sf")`,
			wantOK:  true,
		},
		{
			name:    "only first block extracted",
			content: "```tool_code\nfirst()\n```\n```tool_code\nsecond()\n```",
			want:    "first()",
			wantOK:  true,
		},
		{name: "no block", content: "just text", wantOK: false},
		{name: "wrong tag", content: "```python\nf()\n```", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.Extract(tt.content)
			if ok != tt.wantOK {
				t.Fatalf("Extract ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFenced_Parse(t *testing.T) {
	f := &Fenced{}

	content := "Checking the weather now.\n```tool_code\nprint(get_weather(\"beijing\", unit=\"c\"))\n```\n"
	calls, cleaned := f.Parse(content)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	call := calls[0]
	if call.Name != "get_weather" {
		t.Errorf("name = %q, want get_weather", call.Name)
	}
	if call.ID == "" {
		t.Error("expected non-empty call ID")
	}
	if len(call.Positional) != 1 || call.Positional[0] != "beijing" {
		t.Errorf("positional = %#v", call.Positional)
	}
	if call.Arguments["unit"] != "c" {
		t.Errorf("arguments = %#v", call.Arguments)
	}
	if cleaned != "Checking the weather now." {
		t.Errorf("cleaned = %q", cleaned)
	}
}

func TestFenced_Parse_MalformedPayload(t *testing.T) {
	f := &Fenced{}

	for _, content := range []string{
		"```tool_code\nnot a call at all\n```",
		"```tool_code\nf([1,2,3])\n```",
		"```tool_code\n\n```",
	} {
		calls, cleaned := f.Parse(content)
		if calls != nil {
			t.Errorf("Parse(%q) expected no calls, got %#v", content, calls)
		}
		if cleaned != content {
			t.Errorf("Parse(%q) expected content unchanged", content)
		}
	}
}

func TestFenced_Parse_FreshIDs(t *testing.T) {
	f := &Fenced{}
	content := "```tool_code\nping()\n```"

	calls1, _ := f.Parse(content)
	calls2, _ := f.Parse(content)
	if calls1[0].ID == calls2[0].ID {
		t.Error("expected distinct IDs across parses")
	}
}

func TestFenced_CustomTag(t *testing.T) {
	f := &Fenced{Tag: "tool"}
	calls, _ := f.Parse("```tool\nping()\n```")
	if len(calls) != 1 || calls[0].Name != "ping" {
		t.Fatalf("expected ping call, got %#v", calls)
	}
}

func TestFenced_FormatResults(t *testing.T) {
	f := &Fenced{}
	got := f.FormatResults([]Result{
		{Name: "get_weather", Content: "sunny, 25c"},
		{Name: "book", Err: "tool book failed: sold out"},
	})
	if !strings.HasPrefix(got, "```tool_output\n") || !strings.HasSuffix(got, "```") {
		t.Fatalf("expected fenced tool_output block, got %q", got)
	}
	if !strings.Contains(got, "sunny, 25c") {
		t.Errorf("missing content: %q", got)
	}
	if !strings.Contains(got, "error: tool book failed: sold out") {
		t.Errorf("missing error line: %q", got)
	}
}
