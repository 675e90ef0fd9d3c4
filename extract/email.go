// CLAUDE:SUMMARY Email extractor — sender, urgency, and three-way tone detection over plain-text or HTML bodies.
package extract

import (
	"context"
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/moncel/intake/classify"
)

// Tone values produced by the email extractor.
const (
	TonePolite      = "polite"
	ToneNeutral     = "neutral"
	ToneAngry       = "angry"
	ToneThreatening = "threatening"
)

// emailExtractor parses free-text email bodies.
type emailExtractor struct {
	cfg       Config
	sanitizer *bluemonday.Policy
}

func newEmailExtractor(cfg Config) *emailExtractor {
	return &emailExtractor{
		cfg:       cfg,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Extract parses sender, subject, urgency, and tone from an email body.
// Total: any byte sequence yields a Result, unparseable parts degrade to
// defaults plus anomalies.
func (e *emailExtractor) Extract(_ context.Context, input classify.RawInput, _ classify.Classification) *Result {
	res := newResult()

	raw := string(input.Content)
	sender, subject, body := splitEmail(raw)
	if sender == "" {
		sender = "unknown"
		res.addAnomaly("missing sender")
	}

	if looksLikeHTML(body) {
		body = e.htmlToText(body)
	}

	lower := strings.ToLower(body)

	urgency := "low"
	for _, kw := range e.cfg.UrgencyKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			urgency = "high"
			break
		}
	}

	tone := e.detectTone(lower)

	res.Fields["sender"] = sender
	if subject != "" {
		res.Fields["subject"] = subject
	}
	res.Fields["urgency"] = urgency
	res.Fields["tone"] = tone

	if tone == ToneAngry || tone == ToneThreatening {
		res.addFlag(FlagHostileTone)
	}
	return res
}

// detectTone classifies tone by keyword set, threatening > angry > polite,
// default neutral. The input must already be lowercased.
func (e *emailExtractor) detectTone(lower string) string {
	match := func(set []string) bool {
		for _, kw := range set {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	}
	switch {
	case match(e.cfg.Tone.Threatening):
		return ToneThreatening
	case match(e.cfg.Tone.Angry):
		return ToneAngry
	case match(e.cfg.Tone.Polite):
		return TonePolite
	default:
		return ToneNeutral
	}
}

// splitEmail separates sender, subject, and body. It first tries a full
// RFC 822 parse, then falls back to scanning leading "From:"/"Subject:"
// lines the way hand-pasted email text usually carries them.
func splitEmail(raw string) (sender, subject, body string) {
	if msg, err := mail.ReadMessage(strings.NewReader(raw)); err == nil {
		if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
			sender = addr.Address
		} else {
			sender = strings.TrimSpace(msg.Header.Get("From"))
		}
		subject = strings.TrimSpace(msg.Header.Get("Subject"))
		var sb strings.Builder
		buf := make([]byte, 4096)
		for {
			n, err := msg.Body.Read(buf)
			sb.Write(buf[:n])
			if err != nil {
				break
			}
		}
		if sender != "" {
			return sender, subject, sb.String()
		}
	}

	// Loose scan: headers anywhere in the leading lines, rest is body.
	lines := strings.Split(raw, "\n")
	bodyStart := 0
	for i, line := range lines {
		if i > 10 {
			break
		}
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "from:"):
			sender = strings.TrimSpace(trimmed[len("from:"):])
			bodyStart = i + 1
		case strings.HasPrefix(lower, "subject:"):
			subject = strings.TrimSpace(trimmed[len("subject:"):])
			bodyStart = i + 1
		}
	}
	return sender, subject, strings.Join(lines[bodyStart:], "\n")
}

// looksLikeHTML reports whether the body appears to be an HTML part.
func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<p>") ||
		strings.Contains(lower, "<div")
}

// htmlToText sanitizes an HTML body and collects its visible text.
// Sanitization strips script/style payloads before parsing so keyword
// scans only see rendered text.
func (e *emailExtractor) htmlToText(body string) string {
	clean := e.sanitizer.Sanitize(body)
	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return clean
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}
