package latex

import (
	"regexp"
	"strings"
)

// MaxInputLength bounds the size of a formula the normalizer accepts.
const MaxInputLength = 4096

var (
	environmentWrapper = regexp.MustCompile(
		`(?s)^\\begin\s*\{\s*(equation\*?|align\*?|math|displaymath)\s*\}(.*)\\end\s*\{\s*(equation\*?|align\*?|math|displaymath)\s*\}$`,
	)
	backslashRun = regexp.MustCompile(`\\{3,}`)
)

// Normalize rewrites a formula into the canonical form used for equivalence
// checks. Two formulas are considered equivalent when their canonical forms
// are equal. It returns an error for unbalanced braces, pathological nesting
// and inputs longer than MaxInputLength.
func Normalize(s string) (string, error) {
	if len(s) > MaxInputLength {
		return "", errTooLong
	}

	s = stripDelimiters(s)
	s = backslashRun.ReplaceAllLiteralString(s, `\\`)

	nodes, err := parse(s)
	if err != nil {
		return "", err
	}

	nodes = transform(nodes, rewriteSynonyms)
	nodes = transform(nodes, dropLayout)
	nodes = bareFunctions(nodes)
	nodes = transform(nodes, wrapArguments)
	nodes = transform(nodes, canonicalizeScripts)
	nodes = transform(nodes, literalFractions)
	nodes = transform(nodes, functionArguments)

	return strings.ToLower(serialize(nodes)), nil
}

// trivialForm is the comparison form that only strips delimiters and
// whitespace and ignores case.
func trivialForm(s string) string {
	s = stripDelimiters(s)
	s = strings.Join(strings.Fields(s), "")
	return strings.ToLower(s)
}

// stripDelimiters removes surrounding math delimiters and math environments,
// repeatedly, along with surrounding whitespace.
func stripDelimiters(s string) string {
	for {
		s = strings.TrimSpace(s)
		prev := s
		switch {
		case wrappedIn(s, "$$", "$$"), wrappedIn(s, `\(`, `\)`), wrappedIn(s, `\[`, `\]`):
			s = s[2 : len(s)-2]
		case wrappedIn(s, "$", "$"):
			s = s[1 : len(s)-1]
		default:
			if m := environmentWrapper.FindStringSubmatch(s); m != nil && m[1] == m[3] {
				s = m[2]
			}
		}
		if s == prev {
			return s
		}
	}
}

func wrappedIn(s, open, close string) bool {
	return len(s) >= len(open)+len(close) && strings.HasPrefix(s, open) && strings.HasSuffix(s, close)
}

// rewriteSynonyms maps commands with an equivalent canonical spelling.
func rewriteSynonyms(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for _, n := range seq {
		if n.kind != kindCommand {
			out = append(out, n)
			continue
		}
		if op, ok := operatorSynonyms[n.text]; ok {
			out = append(out, char(op))
			continue
		}
		if name, ok := commandSynonyms[n.text]; ok {
			repl := command(name)
			switch {
			case !strings.HasPrefix(name, `\`):
				repl.kind = kindChar
			case len(name) == 2:
				repl.kind = kindSymbol
			}
			out = append(out, repl)
			continue
		}
		if letter, ok := blackboardLetters[n.text]; ok {
			out = append(out, command(`\mathbb`), group(char(letter)))
			continue
		}
		out = append(out, n)
	}
	return out
}

// dropLayout removes sizing, spacing and style commands that do not change
// what a formula means.
func dropLayout(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		n := seq[i]
		if n.kind == kindGroup {
			out = append(out, n)
			continue
		}
		if sizingCommands[n.text] {
			// \left. and \right. are invisible delimiters.
			if i+1 < len(seq) && seq[i+1].is(".") {
				i++
			}
			continue
		}
		if layoutCommands[n.text] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// bareFunctions turns letter runs spelling a known function into the
// command. Arguments of text commands are left alone.
func bareFunctions(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		n := seq[i]
		switch {
		case n.kind == kindCommand && textCommands[n.text] && i+1 < len(seq) && seq[i+1].kind == kindGroup:
			out = append(out, n, seq[i+1])
			i++
			continue
		case n.kind == kindGroup:
			n.children = bareFunctions(n.children)
			out = append(out, n)
			continue
		case !n.isLetter():
			out = append(out, n)
			continue
		}

		j := i + 1
		for j < len(seq) && seq[j].isLetter() && !seq[j].spaced {
			j++
		}
		var run strings.Builder
		for _, l := range seq[i:j] {
			run.WriteString(l.text)
		}
		followedByParen := j < len(seq) && seq[j].is("(")
		name, at, ok := matchFunctionWord(run.String(), followedByParen)
		if !ok {
			out = append(out, seq[i:j]...)
		} else {
			out = append(out, seq[i:i+at]...)
			cmd := command(`\` + name)
			cmd.spaced = seq[i+at].spaced
			out = append(out, cmd)
		}
		i = j - 1
	}
	return out
}

// matchFunctionWord checks a letter run against the known function names.
// The whole run must match, unless the run is directly followed by an
// opening parenthesis, in which case a suffix may match. It returns the
// name and the offset of the match within run.
func matchFunctionWord(run string, followedByParen bool) (string, int, bool) {
	if functionNames[run] {
		return run, 0, true
	}
	if !followedByParen {
		return "", 0, false
	}
	for _, name := range functionNamesLongestFirst {
		if strings.HasSuffix(run, name) {
			return name, len(run) - len(name), true
		}
	}
	return "", 0, false
}

// wrapArguments brace-wraps the arguments of commands with a known arity,
// so \frac12 and \frac{1}{2} agree. A square root written with parentheses
// takes them as its argument, and an explicit index of 2 is dropped.
func wrapArguments(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		n := seq[i]
		out = append(out, n)
		arity, ok := argumentCounts[n.text]
		if n.kind != kindCommand || !ok {
			continue
		}

		j := i + 1
		if n.text == `\sqrt` {
			if index, end, found := bracketSpan(seq, j, "[", "]"); found {
				if !(len(index) == 1 && index[0].is("2")) {
					out = append(out, seq[j:end+1]...)
				}
				j = end + 1
			}
			if inner, end, found := bracketSpan(seq, j, "(", ")"); found {
				out = append(out, group(inner...))
				arity--
				j = end + 1
			}
		}
		for ; arity > 0 && j < len(seq); arity-- {
			arg := seq[j]
			if arg.kind != kindGroup {
				arg = group(arg)
			}
			out = append(out, arg)
			j++
		}
		i = j - 1
	}
	return out
}

// bracketSpan returns the nodes between seq[j] == open and its matching
// close on the same level, and the index of close.
func bracketSpan(seq []*node, j int, open, close string) ([]*node, int, bool) {
	if j >= len(seq) || !seq[j].is(open) {
		return nil, 0, false
	}
	depth := 0
	for k := j; k < len(seq); k++ {
		switch {
		case seq[k].is(open):
			depth++
		case seq[k].is(close):
			depth--
			if depth == 0 {
				return seq[j+1 : k], k, true
			}
		}
	}
	return nil, 0, false
}

// argumentEnd returns the index just past the argument unit starting at j:
// a command together with its optional index and arguments, or one node.
func argumentEnd(seq []*node, j int) int {
	n := seq[j]
	arity, ok := argumentCounts[n.text]
	if n.kind != kindCommand || !ok {
		return j + 1
	}
	k := j + 1
	if n.text == `\sqrt` {
		if _, end, found := bracketSpan(seq, k, "[", "]"); found {
			k = end + 1
		}
	}
	for ; arity > 0 && k < len(seq); arity-- {
		k++
	}
	return k
}

func isScriptOp(n *node) bool {
	return n.kind == kindChar && (n.text == "^" || n.text == "_")
}

type script struct {
	op  *node
	arg *node
}

// canonicalizeScripts brace-wraps every sub/superscript argument, removes
// redundant nested braces around it and orders a subscript before a
// superscript. This covers the bounds of \sum, \int and \lim too.
func canonicalizeScripts(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); {
		if !isScriptOp(seq[i]) {
			out = append(out, seq[i])
			i++
			continue
		}

		var scripts []script
		for i+1 < len(seq) && isScriptOp(seq[i]) {
			end := argumentEnd(seq, i+1)
			scripts = append(scripts, script{op: seq[i], arg: scriptArgument(seq[i+1 : end])})
			i = end
		}
		if len(scripts) == 0 {
			// dangling operator at the end
			out = append(out, seq[i])
			i++
			continue
		}
		if len(scripts) == 2 && scripts[0].op.text == "^" && scripts[1].op.text == "_" {
			scripts[0], scripts[1] = scripts[1], scripts[0]
		}
		for _, s := range scripts {
			out = append(out, s.op, s.arg)
		}
	}
	return out
}

func scriptArgument(unit []*node) *node {
	if len(unit) == 1 && unit[0].kind == kindGroup {
		g := unit[0]
		for len(g.children) == 1 && g.children[0].kind == kindGroup {
			g = g.children[0]
		}
		return g
	}
	return group(unit...)
}

// literalFractions rewrites integer divisions like 1/2 as \frac{1}{2}.
// Decimals are left alone.
func literalFractions(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); {
		if !seq[i].isDigit() || (i > 0 && (seq[i-1].is(".") || seq[i-1].isDigit())) {
			out = append(out, seq[i])
			i++
			continue
		}
		a := i
		for a < len(seq) && seq[a].isDigit() {
			a++
		}
		if a < len(seq) && seq[a].is("/") {
			b := a + 1
			for b < len(seq) && seq[b].isDigit() {
				b++
			}
			if b > a+1 && !(b < len(seq) && seq[b].is(".")) {
				out = append(out, command(`\frac`), group(seq[i:a]...), group(seq[a+1:b]...))
				i = b
				continue
			}
		}
		out = append(out, seq[i:a]...)
		i = a
	}
	return out
}

// functionArguments parenthesizes the argument of a function so \sin x,
// \sin{x} and \sin(x) agree. Scripts on the function (\sin^{2}, \log_{2})
// stay attached to it.
func functionArguments(seq []*node) []*node {
	out := make([]*node, 0, len(seq))
	for i := 0; i < len(seq); i++ {
		n := seq[i]
		out = append(out, n)
		if n.kind != kindCommand || !argumentFunctions[n.text] {
			continue
		}

		j := i + 1
		for j+1 < len(seq) && isScriptOp(seq[j]) {
			out = append(out, seq[j], seq[j+1])
			j += 2
		}
		if j >= len(seq) {
			i = j - 1
			continue
		}

		arg := seq[j]
		switch {
		case arg.kind == kindGroup:
			out = append(out, char("("))
			out = append(out, functionArguments(arg.children)...)
			out = append(out, char(")"))
			j++
		case arg.kind == kindCommand:
			end := argumentEnd(seq, j)
			out = append(out, char("("))
			out = append(out, seq[j:end]...)
			out = append(out, char(")"))
			j = end
		case arg.isLetter() || arg.isDigit():
			end := j + 1
			for end < len(seq) && (seq[end].isLetter() || seq[end].isDigit()) && !seq[end].spaced {
				end++
			}
			out = append(out, char("("))
			out = append(out, seq[j:end]...)
			out = append(out, char(")"))
			j = end
		}
		i = j - 1
	}
	return out
}
