package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"arxiv-alert/internal/feed"
)

const emailTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
h1 { color: #0066cc; border-bottom: 1px solid #ddd; padding-bottom: 10px; }
h2 { color: #0066cc; margin-top: 20px; }
.paper { margin-bottom: 30px; padding-bottom: 20px; border-bottom: 1px solid #eee; }
.authors { color: #666; font-style: italic; }
.abstract { margin-top: 10px; text-align: justify; }
.link a { color: #0066cc; text-decoration: none; }
.link a:hover { text-decoration: underline; }
.footer { margin-top: 30px; font-size: 0.8em; color: #999; text-align: center; }
</style>
</head>
<body>
<h1>arXiv Paper Alert - {{.Date}}</h1>
<p>The following papers match your search criteria:</p>
{{range .Papers}}<div class="paper">
<h2>{{.Title}}</h2>
<div class="authors">{{.Authors}}</div>
<div class="abstract">{{.Abstract}}</div>
<div class="link"><a href="{{.URL}}">Read on arXiv</a></div>
</div>
{{end}}<div class="footer">
<p>This email was sent automatically by arxiv-alert.</p>
<p>Keywords: {{.Keywords}}</p>
</div>
</body>
</html>
`

var emailTmpl = template.Must(template.New("alert").Parse(emailTemplate))

type emailData struct {
	Date     string
	Papers   []emailPaper
	Keywords string
}

type emailPaper struct {
	Title    string
	Authors  string
	Abstract string
	URL      string
}

// EmailNotifier sends one HTML digest per run via SMTP.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	keywords string
}

// NewEmailNotifier creates an EmailNotifier. keywords is the display form of
// the search policy, shown in the email footer.
func NewEmailNotifier(host string, port int, username, password, from string, to []string, keywords string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		keywords: keywords,
	}
}

func (n *EmailNotifier) Notify(_ context.Context, papers []feed.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	body, err := buildHTMLBody(papers, n.keywords, date)
	if err != nil {
		return fmt.Errorf("email: failed to render body: %w", err)
	}

	subject := fmt.Sprintf("arXiv Paper Alert - %s", date)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		n.from,
		strings.Join(n.to, ","),
		subject,
		body,
	)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)

	if err := smtp.SendMail(addr, auth, n.from, n.to, []byte(msg)); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}

	return nil
}

func buildHTMLBody(papers []feed.Paper, keywords, date string) (string, error) {
	data := emailData{
		Date:     date,
		Keywords: keywords,
		Papers:   make([]emailPaper, 0, len(papers)),
	}
	for _, p := range papers {
		data.Papers = append(data.Papers, emailPaper{
			Title:    p.Title,
			Authors:  FormatAuthors(p.Authors, 3),
			Abstract: p.Abstract,
			URL:      p.URL,
		})
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatAuthors joins up to maxAuthors names, appending "et al." when the
// list is longer.
func FormatAuthors(authors []string, maxAuthors int) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) <= maxAuthors {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s et al.", strings.Join(authors[:maxAuthors], ", "))
}
