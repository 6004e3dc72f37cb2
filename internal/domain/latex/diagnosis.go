package latex

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	escapableNames = []string{"frac", "sqrt", "sum", "int", "lim", "sin", "cos", "tan", "log", "ln", "exp"}
	greekNames     = []string{"alpha", "beta", "gamma", "delta", "theta", "lambda", "sigma", "omega", "phi", "mu", "pi"}
	slashFraction  = regexp.MustCompile(`(\d+)/(\d+)`)
)

// Diagnose looks for a common mistake in an incorrect answer. It returns
// nil when none applies.
func Diagnose(user, target string) (d *Diagnosis) {
	defer func() {
		if recover() != nil {
			d = nil
		}
	}()

	u := compact(user)
	t := compact(target)

	for _, name := range escapableNames {
		if missingBackslash(u, t, name) {
			return &Diagnosis{
				Type:    DiagnosisMissingBackslash,
				Message: fmt.Sprintf(`Commands start with a backslash: write \%s, not %s`, name, name),
			}
		}
	}

	if m := slashFraction.FindStringSubmatch(u); m != nil && strings.Contains(t, `\frac`) {
		return &Diagnosis{
			Type:    DiagnosisFractionFormat,
			Message: fmt.Sprintf(`Write fractions as \frac{%s}{%s} rather than %s/%s`, m[1], m[2], m[1], m[2]),
		}
	}

	for _, name := range greekNames {
		if missingBackslash(u, t, name) {
			return &Diagnosis{
				Type:    DiagnosisGreekLetter,
				Message: fmt.Sprintf(`Greek letters are commands: write \%s, not %s`, name, name),
			}
		}
	}

	for _, pair := range [][2]string{{"(", ")"}, {"{", "}"}, {"[", "]"}} {
		if strings.Count(u, pair[0]) != strings.Count(u, pair[1]) {
			return &Diagnosis{
				Type:    DiagnosisUnbalanced,
				Message: fmt.Sprintf("Every %s needs a matching %s", pair[0], pair[1]),
			}
		}
	}

	return nil
}

// compact strips delimiters and whitespace.
func compact(s string) string {
	return strings.Join(strings.Fields(stripDelimiters(s)), "")
}

func missingBackslash(user, target, name string) bool {
	cmd := `\` + name
	return strings.Contains(target, cmd) &&
		strings.Contains(user, name) &&
		!strings.Contains(user, cmd)
}
