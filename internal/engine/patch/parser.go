package patch

import (
	"fmt"
	"strings"
)

// parsedTag holds the attribute text and body of one parsed tag group.
type parsedTag struct {
	attributes string
	body       string
}

// parseTag scans input for the next <tag ...>body</tag> group and
// consumes through the closing tag, leaving the remainder in input.
// A missing open tag is not an error: the result is nil and input is
// left alone. An unterminated tag is an error.
//
// The body is trimmed of exactly one leading and one trailing newline,
// so block-formatted content round-trips without growing blank lines.
func parseTag(input *string, tag string) (*parsedTag, error) {
	s := *input

	start := strings.Index(s, "<"+tag)
	if start < 0 {
		return nil, nil
	}
	start += len(tag) + 1

	bracket := strings.Index(s[start:], ">")
	if bracket < 0 {
		return nil, fmt.Errorf("%w: missing '>' after <%s>", ErrMalformedTag, tag)
	}
	bracket += start

	closing := "</" + tag + ">"
	end := strings.Index(s[bracket:], closing)
	if end < 0 {
		return nil, fmt.Errorf("%w: no closing </%s> tag", ErrMalformedTag, tag)
	}
	end += bracket

	body := s[bracket+1 : end]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")

	*input = s[end+len(closing):]
	return &parsedTag{
		attributes: strings.TrimSpace(s[start:bracket]),
		body:       body,
	}, nil
}

// SplitDocuments breaks input into its consecutive <edits>...</edits>
// groups, one string per group, so each can be applied independently.
// Text between groups is ignored. An opening tag without a closing tag
// is an error; validation of each group's contents is left to Apply.
func SplitDocuments(input string) ([]string, error) {
	const open, closing = "<edits", "</edits>"

	var docs []string
	rest := input
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			return docs, nil
		}
		end := strings.Index(rest[start:], closing)
		if end < 0 {
			return nil, fmt.Errorf("%w: no closing </edits> tag", ErrMalformedTag)
		}
		end += start + len(closing)
		docs = append(docs, rest[start:end])
		rest = rest[end:]
	}
}

// parsePathAttribute extracts the value of the path attribute. The
// attribute must appear first, and the equals sign must immediately
// follow the attribute name. The value may be padded with whitespace
// and wrapped in quotes.
func parsePathAttribute(attributes string) (string, error) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(attributes, " \t\r\n"), "path")
	if !ok {
		return "", ErrNoPathAttribute
	}
	rest, ok = strings.CutPrefix(strings.TrimRight(rest, " \t\r\n"), "=")
	if !ok {
		return "", ErrNoPathValue
	}
	return strings.Trim(strings.TrimSpace(rest), `"`), nil
}
