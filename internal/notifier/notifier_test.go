package notifier

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"arxiv-alert/internal/feed"
)

func samplePapers() []feed.Paper {
	return []feed.Paper{
		{
			ID:         "2501.00001v1",
			Title:      "A Survey of Reinforcement Learning",
			Abstract:   "We survey the field.",
			Authors:    []string{"Alice", "Bob"},
			URL:        "http://arxiv.org/abs/2501.00001v1",
			Published:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Categories: []string{"cs.LG"},
		},
		{
			ID:       "2501.00002v1",
			Title:    "Graph Networks <Explained>",
			Abstract: "Second abstract.",
			Authors:  []string{"Carol", "Dan", "Erin", "Frank"},
			URL:      "http://arxiv.org/abs/2501.00002v1",
		},
	}
}

func TestBuildHTMLBody(t *testing.T) {
	body, err := buildHTMLBody(samplePapers(), "(rl) OR (gnn)", "2025-01-15")
	if err != nil {
		t.Fatalf("buildHTMLBody returned error: %v", err)
	}

	for _, want := range []string{
		"arXiv Paper Alert - 2025-01-15",
		"A Survey of Reinforcement Learning",
		"Alice, Bob",
		"Carol, Dan, Erin et al.",
		`href="http://arxiv.org/abs/2501.00001v1"`,
		"Keywords: (rl) OR (gnn)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}

	// Title markup must be escaped, not interpreted.
	if strings.Contains(body, "<Explained>") {
		t.Error("Expected HTML in titles to be escaped")
	}
	if !strings.Contains(body, "&lt;Explained&gt;") {
		t.Error("Expected escaped title text in body")
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"no authors", nil, "Unknown"},
		{"single author", []string{"Alice"}, "Alice"},
		{"at the limit", []string{"A", "B", "C"}, "A, B, C"},
		{"over the limit", []string{"A", "B", "C", "D"}, "A, B, C et al."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAuthors(tt.authors, 3); got != tt.want {
				t.Errorf("FormatAuthors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmailNotifyEmptyBatchIsNoOp(t *testing.T) {
	// No SMTP server exists at this address; an empty batch must not dial it.
	n := NewEmailNotifier("smtp.invalid", 587, "u", "p", "from@example.com", []string{"to@example.com"}, "")

	if err := n.Notify(context.Background(), nil); err != nil {
		t.Fatalf("Notify with empty batch returned error: %v", err)
	}
}

func TestStdoutNotify(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := NewStdoutNotifier().Notify(context.Background(), samplePapers())

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	for _, want := range []string{
		"2 matching papers",
		"1. A Survey of Reinforcement Learning",
		"Alice, Bob",
		"cs.LG",
		"2. Graph Networks <Explained>",
		"Carol, Dan, Erin et al.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestStdoutNotifyEmptyBatchIsNoOp(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := NewStdoutNotifier().Notify(context.Background(), nil)

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if buf.Len() != 0 {
		t.Errorf("Expected no output for empty batch, got %q", buf.String())
	}
}
