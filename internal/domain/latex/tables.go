package latex

import "sort"

// FunctionNames are the function names recognized when written without a
// backslash.
var FunctionNames = []string{
	"sin", "cos", "tan", "cot", "sec", "csc",
	"sinh", "cosh", "tanh",
	"arcsin", "arccos", "arctan",
	"ln", "log", "exp",
	"lim", "max", "min",
	"sqrt", "det", "gcd",
}

var (
	functionNames             = toSet(FunctionNames)
	functionNamesLongestFirst = longestFirst(FunctionNames)
)

// argumentFunctions take an operand that may be written bare, braced or
// parenthesized.
var argumentFunctions = toSet([]string{
	`\sin`, `\cos`, `\tan`, `\cot`, `\sec`, `\csc`,
	`\sinh`, `\cosh`, `\tanh`,
	`\arcsin`, `\arccos`, `\arctan`,
	`\ln`, `\log`, `\exp`,
})

var operatorSynonyms = map[string]string{
	`\cdot`:     "*",
	`\times`:    "*",
	`\ast`:      "*",
	`\div`:      "/",
	`\neq`:      "!=",
	`\ne`:       "!=",
	`\leq`:      "<=",
	`\le`:       "<=",
	`\leqslant`: "<=",
	`\geq`:      ">=",
	`\ge`:       ">=",
	`\geqslant`: ">=",
	`\lt`:       "<",
	`\gt`:       ">",
}

var commandSynonyms = map[string]string{
	`\to`:         `\rightarrow`,
	`\implies`:    `\Rightarrow`,
	`\gets`:       `\leftarrow`,
	`\iff`:        `\Leftrightarrow`,
	`\dfrac`:      `\frac`,
	`\tfrac`:      `\frac`,
	`\infin`:      `\infty`,
	`\ldots`:      `\dots`,
	`\lbrace`:     `\{`,
	`\rbrace`:     `\}`,
	`\vert`:       `|`,
	`\lvert`:      `|`,
	`\rvert`:      `|`,
	`\textrm`:     `\text`,
	`\mbox`:       `\text`,
	`\varepsilon`: `\epsilon`,
}

var blackboardLetters = map[string]string{
	`\R`: "R",
	`\Z`: "Z",
	`\N`: "N",
	`\Q`: "Q",
	`\C`: "C",
}

var sizingCommands = toSet([]string{
	`\left`, `\right`, `\middle`,
	`\big`, `\Big`, `\bigg`, `\Bigg`,
	`\bigl`, `\Bigl`, `\biggl`, `\Biggl`,
	`\bigr`, `\Bigr`, `\biggr`, `\Biggr`,
})

var layoutCommands = toSet([]string{
	`\,`, `\;`, `\:`, `\!`, `\ `,
	`\quad`, `\qquad`,
	`\displaystyle`, `\textstyle`,
	`\limits`, `\nolimits`,
})

var textCommands = toSet([]string{`\text`, `\mathrm`, `\operatorname`})

var argumentCounts = map[string]int{
	`\frac`:         2,
	`\binom`:        2,
	`\sqrt`:         1,
	`\mathbb`:       1,
	`\mathrm`:       1,
	`\mathbf`:       1,
	`\mathcal`:      1,
	`\text`:         1,
	`\operatorname`: 1,
	`\vec`:          1,
	`\hat`:          1,
	`\bar`:          1,
	`\tilde`:        1,
	`\dot`:          1,
	`\overline`:     1,
	`\underline`:    1,
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func longestFirst(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
