package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"inline delimiters", "$x^2$", "x^{2}"},
		{"display delimiters", "$$ x^2 $$", "x^{2}"},
		{"paren delimiters", `\( x^2 \)`, "x^{2}"},
		{"bracket delimiters", `\[ x^2 \]`, "x^{2}"},
		{"equation environment", `\begin{equation*} x^2 \end{equation*}`, "x^{2}"},
		{"subscript before superscript", "x^2_i", "x_{i}^{2}"},
		{"nested braces in script", "x^{{2}}", "x^{2}"},
		{"multi character script keeps first character", "x^10", "x^{1}0"},
		{"slash fraction", "1/2", `\frac{1}{2}`},
		{"decimal is not a fraction", "0.5/2", "0.5/2"},
		{"unbraced frac arguments", `\frac12`, `\frac{1}{2}`},
		{"spaced frac arguments", `\frac { 1 } { 2 }`, `\frac{1}{2}`},
		{"dfrac", `\dfrac{a}{b}`, `\frac{a}{b}`},
		{"sqrt index two", `\sqrt[2]{x}`, `\sqrt{x}`},
		{"sqrt index three", `\sqrt[3]{x}`, `\sqrt[3]{x}`},
		{"bare sqrt with parens", "sqrt(x+1)", `\sqrt{x+1}`},
		{"cdot", `a \cdot b`, "a*b"},
		{"times", `a \times b`, "a*b"},
		{"div", `a \div b`, "a/b"},
		{"neq", `x \neq y`, "x!=y"},
		{"le", `x \le y`, "x<=y"},
		{"geq", `x \geq y`, "x>=y"},
		{"to", `x \to 0`, `x\rightarrow0`},
		{"sizing", `\left( x \right)`, "(x)"},
		{"invisible delimiter", `\left. x \right|`, "x|"},
		{"big", `\big[ x \big]`, "[x]"},
		{"spacing", `a \, b \quad c`, "abc"},
		{"blackboard shorthand", `\R`, `\mathbb{r}`},
		{"blackboard without braces", `\mathbb R`, `\mathbb{r}`},
		{"backslash run", `a \\\\ b`, `a\\b`},
		{"environment name spacing", `\begin{ matrix } a \end{ matrix }`, `\begin{matrix}a\end{matrix}`},
		{"bare function", "sin(x)", `\sin(x)`},
		{"bare function suffix before paren", "xcos(x)", `x\cos(x)`},
		{"bare word inside text", `\text{min}`, `\text{min}`},
		{"spaced letters are not a function", "s in", "sin"},
		{"function argument bare", `\sin x`, `\sin(x)`},
		{"function argument braced", `\sin{x}`, `\sin(x)`},
		{"function argument run", `\sin 2x`, `\sin(2x)`},
		{"function with power", `\sin^2 x`, `\sin^{2}(x)`},
		{"function with base", `\log_2 8`, `\log_{2}(8)`},
		{"sum bounds", `\sum^n_{i=1} i`, `\sum_{i=1}^{n}i`},
		{"limits dropped", `\sum\limits_{i=1}^{n}`, `\sum_{i=1}^{n}`},
		{"lower case", `\Delta X`, `\deltax`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		err   error
	}{
		{"unclosed group", "x^{2", errUnbalanced},
		{"stray closing brace", "x}", errUnbalanced},
		{"deep nesting", strings.Repeat("{", maxDepth+1) + strings.Repeat("}", maxDepth+1), errTooDeep},
		{"too long", strings.Repeat("x", MaxInputLength+1), errTooLong},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestStripDelimiters(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "x", stripDelimiters("  $ $$x$$ $ "))
	assert.Equal(t, "$", stripDelimiters("$"))
	assert.Equal(t, `\begin{align}x\end{equation}`, stripDelimiters(`\begin{align}x\end{equation}`))
}
