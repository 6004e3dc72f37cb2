package latex

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	multiCharScript  = regexp.MustCompile(`([\^_])([0-9]{2,}|[a-zA-Z]{2,})`)
	singleCharScript = regexp.MustCompile(`([\^_])([a-zA-Z0-9])`)
	bracedScript     = regexp.MustCompile(`[\^_]\{`)
)

// styleCheck inspects a delimiter-stripped answer and returns a tip or nil.
type styleCheck func(user, target string) *Tip

// styleChecks run in order; the first tip found wins.
var styleChecks = []styleCheck{
	checkFunctionNames,
	checkScriptBraces,
	checkBraceStyle,
}

// StyleTip returns the first style tip for a correct answer, or nil.
func StyleTip(user, target string) (tip *Tip) {
	defer func() {
		if recover() != nil {
			tip = nil
		}
	}()

	user = stripDelimiters(user)
	target = stripDelimiters(target)
	for _, check := range styleChecks {
		if t := check(user, target); t != nil {
			return t
		}
	}
	return nil
}

func checkFunctionNames(user, _ string) *Tip {
	spans := bareFunctionSpans(user)
	if len(spans) == 0 {
		return nil
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(user[last:sp.start])
		b.WriteByte('\\')
		last = sp.start
	}
	b.WriteString(user[last:])

	name := spans[0].name
	return &Tip{
		Type:       TipFunctionName,
		Message:    "Function names render upright when written as commands",
		Suggestion: fmt.Sprintf(`Write \%s instead of %s`, name, name),
		Corrected:  b.String(),
	}
}

func checkScriptBraces(user, _ string) *Tip {
	m := multiCharScript.FindStringSubmatch(user)
	if m == nil {
		return nil
	}
	return &Tip{
		Type:       TipScriptBraces,
		Message:    "Superscripts and subscripts longer than one character need braces",
		Suggestion: fmt.Sprintf("Write %s{%s} instead of %s%s", m[1], m[2], m[1], m[2]),
		Corrected:  multiCharScript.ReplaceAllString(user, "${1}{${2}}"),
	}
}

// checkBraceStyle fires when the answer leaves one-character scripts bare
// while the target braces its scripts.
func checkBraceStyle(user, target string) *Tip {
	if !bracedScript.MatchString(target) {
		return nil
	}
	m := singleCharScript.FindStringSubmatch(user)
	if m == nil {
		return nil
	}
	return &Tip{
		Type:       TipBraceStyle,
		Message:    "Braces make the extent of a superscript or subscript explicit",
		Suggestion: fmt.Sprintf("Write %s{%s} instead of %s%s", m[1], m[2], m[1], m[2]),
		Corrected:  singleCharScript.ReplaceAllString(user, "${1}{${2}}"),
	}
}

type functionSpan struct {
	name  string
	start int
}

// bareFunctionSpans finds known function names that are not preceded by a
// backslash, with the same matching rules the normalizer uses.
func bareFunctionSpans(s string) []functionSpan {
	var spans []functionSpan
	for i := 0; i < len(s); {
		if !isASCIILetter(rune(s[i])) {
			i++
			continue
		}
		j := i
		for j < len(s) && isASCIILetter(rune(s[j])) {
			j++
		}
		if i == 0 || s[i-1] != '\\' {
			followedByParen := j < len(s) && s[j] == '('
			if name, at, ok := matchFunctionWord(s[i:j], followedByParen); ok {
				spans = append(spans, functionSpan{name: name, start: i + at})
			}
		}
		i = j
	}
	return spans
}
