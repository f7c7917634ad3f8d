package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// euroFormatter rewrites "<number> Euro" amounts with the locale's digit
// grouping and decimal mark, followed by the "€" sign.
type euroFormatter struct {
	group   string
	decimal string
	pattern *regexp.Regexp
}

func newEuroFormatter(tag language.Tag) *euroFormatter {
	p := message.NewPrinter(tag)
	group, decimal := separators(p)

	intPart := `\d+`
	if group != "" {
		intPart = fmt.Sprintf(`\d{1,3}(?:%s\d{3})+|\d+`, regexp.QuoteMeta(group))
	}
	// Amount, optional fraction, optional space, then the currency word or
	// sign. The word must not run on into a compound ("Euro-Zone").
	expr := fmt.Sprintf(`(?:^|\b)(%s)(?:%s(\d+))? ?(?:€|(?:Euro|EUR)($|[^\p{L}\p{N}-]))`,
		intPart, regexp.QuoteMeta(decimal))

	return &euroFormatter{
		group:   group,
		decimal: decimal,
		pattern: regexp.MustCompile(expr),
	}
}

// separators extracts the grouping and decimal marks the printer uses.
func separators(p *message.Printer) (group, decimal string) {
	sample := []rune(p.Sprint(number.Decimal(1234567.5, number.Scale(1))))
	decimal = string(sample[len(sample)-2])
	if len(sample) > 1 && (sample[1] < '0' || sample[1] > '9') {
		group = string(sample[1])
	}
	return group, decimal
}

// format rewrites every amount in text. Only separators change; the digits
// are copied as spoken. Text outside matches is unchanged.
func (f *euroFormatter) format(text string) string {
	if !strings.Contains(text, "€") && !strings.Contains(text, "Euro") && !strings.Contains(text, "EUR") {
		return text
	}
	return f.pattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := f.pattern.FindStringSubmatch(match)
		intDigits := sub[1]
		if f.group != "" {
			intDigits = strings.ReplaceAll(intDigits, f.group, "")
		}
		fraction := sub[2]
		trailer := sub[3]

		amount := groupDigits(intDigits, f.group)
		if fraction != "" {
			amount += f.decimal + fraction
		}
		return amount + " €" + trailer
	})
}

// groupDigits inserts mark between every three digits from the right.
func groupDigits(digits, mark string) string {
	if mark == "" || len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	sb.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		sb.WriteString(mark)
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
