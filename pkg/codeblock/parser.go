// Package codeblock extracts generated source from model replies.
//
// Contract: the first fenced block whose language tag is jsx or tsx becomes
// the markup, the first block tagged css becomes the style. Contents are
// trimmed. A reply with no matching block leaves the prior value untouched;
// a no-match reply never clears previously generated code.
package codeblock

import (
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```([a-zA-Z0-9]*)[ \t]*\r?\n?(.*?)```")

const (
	tagJsx = "jsx"
	tagTsx = "tsx"
	tagCss = "css"
)

// Extraction holds whatever the reply carried. Has* flags distinguish "block
// present but empty" from "no block found".
type Extraction struct {
	Markup    string
	Style     string
	HasMarkup bool
	HasStyle  bool
}

// Extract scans the reply for fenced code blocks. The first match of each
// tag wins; later blocks with the same tag are ignored.
func Extract(reply string) Extraction {
	var result Extraction

	for _, match := range fencedBlockRe.FindAllStringSubmatch(reply, -1) {
		tag := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		switch tag {
		case tagJsx, tagTsx:
			if !result.HasMarkup {
				result.Markup = content
				result.HasMarkup = true
			}
		case tagCss:
			if !result.HasStyle {
				result.Style = content
				result.HasStyle = true
			}
		}

		if result.HasMarkup && result.HasStyle {
			break
		}
	}

	return result
}

// Apply merges a reply into the prior markup/style, retaining prior values
// for any tag the reply did not carry.
func Apply(reply, priorMarkup, priorStyle string) (string, string) {
	extraction := Extract(reply)

	markup := priorMarkup
	if extraction.HasMarkup {
		markup = extraction.Markup
	}

	style := priorStyle
	if extraction.HasStyle {
		style = extraction.Style
	}

	return markup, style
}
