package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleTip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		user       string
		target     string
		tipType    TipType
		suggestion string
		corrected  string
	}{
		{
			name:       "bare function corrected everywhere",
			user:       "$sin(x) + cos(x)$",
			target:     `\sin(x)+\cos(x)`,
			tipType:    TipFunctionName,
			suggestion: `Write \sin instead of sin`,
			corrected:  `\sin(x) + \cos(x)`,
		},
		{
			name:       "escaped function is fine",
			user:       `\sin(x)^2`,
			target:     `\sin(x)^{2}`,
			tipType:    TipBraceStyle,
			suggestion: "Write ^{2} instead of ^2",
			corrected:  `\sin(x)^{2}`,
		},
		{
			name:       "multi digit superscript",
			user:       "x^10 y",
			target:     "x^10y",
			tipType:    TipScriptBraces,
			suggestion: "Write ^{10} instead of ^10",
			corrected:  "x^{10} y",
		},
		{
			name:       "multi letter subscript",
			user:       "x_ab",
			target:     "x_ab",
			tipType:    TipScriptBraces,
			suggestion: "Write _{ab} instead of _ab",
			corrected:  "x_{ab}",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tip := StyleTip(tc.user, tc.target)
			require.NotNil(t, tip)
			assert.Equal(t, tc.tipType, tip.Type)
			assert.Equal(t, tc.suggestion, tip.Suggestion)
			assert.Equal(t, tc.corrected, tip.Corrected)
			assert.NotEmpty(t, tip.Message)
		})
	}
}

func TestStyleTip_None(t *testing.T) {
	t.Parallel()
	assert.Nil(t, StyleTip(`\frac{1}{2}`, "1/2"))
	// single character scripts are fine when the target leaves them bare too
	assert.Nil(t, StyleTip("x^2", "x^2"))
}

func TestBareFunctionSpans(t *testing.T) {
	t.Parallel()
	spans := bareFunctionSpans(`\sin x + ln(y) + xcos(z) + sinh`)
	require.Len(t, spans, 3)
	assert.Equal(t, "ln", spans[0].name)
	assert.Equal(t, "cos", spans[1].name)
	assert.Equal(t, "sinh", spans[2].name)
}
