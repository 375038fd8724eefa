package notifier

import (
	"context"
	"fmt"
	"strings"

	"arxiv-alert/internal/feed"
)

// StdoutNotifier prints matched papers to stdout. Useful for local runs
// before SMTP is configured.
type StdoutNotifier struct{}

func NewStdoutNotifier() *StdoutNotifier {
	return &StdoutNotifier{}
}

func (n *StdoutNotifier) Notify(_ context.Context, papers []feed.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("arXiv Paper Alert: %d matching papers\n", len(papers))
	fmt.Println(strings.Repeat("=", 72))

	for i, p := range papers {
		fmt.Println()
		fmt.Printf("%d. %s\n", i+1, p.Title)
		fmt.Printf("   Authors: %s\n", FormatAuthors(p.Authors, 3))
		if len(p.Categories) > 0 {
			fmt.Printf("   Categories: %s\n", strings.Join(p.Categories, ", "))
		}
		fmt.Printf("   URL: %s\n", p.URL)
		if p.Abstract != "" {
			fmt.Printf("   %s\n", p.Abstract)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	return nil
}
