package playground

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Tokens are diffed as single runes taken from the private use area, so
// tags and words are never split by the character diff.
const (
	tokenRuneBase = 0xE000
	tokenRuneMax  = 0xF8FF
)

// renderDiff renders the token-level change from before to after. Deleted
// runs read [-like this-] and inserted runs {+like this+}.
func renderDiff(before, after string) string {
	if before == after {
		return ""
	}
	var b strings.Builder
	for _, d := range diffTokens(diffmatchpatch.New(), before, after) {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(diffDeleteStyle.Render("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			b.WriteString(diffInsertStyle.Render("{+" + d.Text + "+}"))
		}
	}
	return b.String()
}

// diffTokens diffs before and after token by token and returns the diffs
// with their text decoded. It falls back to a character diff when the
// markup has more distinct tokens than there are private runes.
func diffTokens(dmp *diffmatchpatch.DiffMatchPatch, before, after string) []diffmatchpatch.Diff {
	index := make(map[string]rune)
	var table []string
	encode := func(tokens []string) ([]rune, bool) {
		out := make([]rune, len(tokens))
		for i, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				r = rune(tokenRuneBase + len(table))
				if r > tokenRuneMax {
					return nil, false
				}
				index[tok] = r
				table = append(table, tok)
			}
			out[i] = r
		}
		return out, true
	}

	oldRunes, ok1 := encode(tokenizeMarkup(before))
	newRunes, ok2 := encode(tokenizeMarkup(after))
	if !ok1 || !ok2 {
		return dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	}

	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	for i, d := range diffs {
		var text strings.Builder
		for _, r := range d.Text {
			text.WriteString(table[r-tokenRuneBase])
		}
		diffs[i].Text = text.String()
	}
	return diffs
}

// tokenizeMarkup splits markup into tags, words, whitespace and single
// punctuation runes.
func tokenizeMarkup(s string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i:], '>'); end > 0 {
				flush()
				tokens = append(tokens, s[i:i+end+1])
				i += end + 1
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteString(s[i : i+size])
		} else {
			flush()
			tokens = append(tokens, s[i:i+size])
		}
		i += size
	}
	flush()
	return tokens
}
