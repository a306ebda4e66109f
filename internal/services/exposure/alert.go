package exposure

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/NordCoder/Exposerus/internal/domain/failure"
)

// MaxMessageLen is Telegram's limit for a single message text.
const MaxMessageLen = 4096

const truncMark = "\n…"

// FormatAlert builds the admin message for a failed job execution.
func FormatAlert(job, correlationID string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Job %s failed</b>\n", html.EscapeString(job))
	fmt.Fprintf(&b, "UUID: <code>%s</code>\n", html.EscapeString(correlationID))
	fmt.Fprintf(&b, "Code: <code>%s</code>\n", failure.KindOf(err))
	b.WriteString("Message: ")
	b.WriteString(fitEscaped(err.Error(), MaxMessageLen-utf8.RuneCountInString(b.String())))
	head := b.String()

	stack := string(failure.StackOf(err))
	if stack == "" {
		return head
	}

	const open, closing = "\n<pre>", "</pre>"
	budget := MaxMessageLen - utf8.RuneCountInString(head) - utf8.RuneCountInString(open+closing)
	if budget <= 0 {
		return head
	}
	return head + open + fitEscaped(stack, budget) + closing
}

// fitEscaped escapes s and trims it from the end until it fits in budget runes.
func fitEscaped(s string, budget int) string {
	esc := html.EscapeString(s)
	if utf8.RuneCountInString(esc) <= budget {
		return esc
	}
	markLen := utf8.RuneCountInString(truncMark)
	raw := []rune(s)
	for len(raw) > 0 {
		over := utf8.RuneCountInString(esc) + markLen - budget
		if over <= 0 {
			return esc + truncMark
		}
		if over > len(raw) {
			over = len(raw)
		}
		raw = raw[:len(raw)-over]
		esc = html.EscapeString(string(raw))
	}
	return ""
}
