package latex

// Evaluation is the verdict on one submission.
type Evaluation struct {
	IsCorrect bool `json:"is_correct"`
	// Tip is an optional style improvement for a correct answer.
	Tip *Tip `json:"tip,omitempty"`
	// Diagnosis names a common mistake in an incorrect answer.
	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`
}

// TipType identifies a style check.
type TipType string

const (
	TipFunctionName TipType = "function_name"
	TipScriptBraces TipType = "script_braces"
	TipBraceStyle   TipType = "brace_style"
)

// Tip is advisory only and never changes the verdict.
type Tip struct {
	Type       TipType `json:"type"`
	Message    string  `json:"message"`
	Suggestion string  `json:"suggestion"`
	Corrected  string  `json:"corrected_version,omitempty"`
}

// DiagnosisType identifies a common mistake.
type DiagnosisType string

const (
	DiagnosisMissingBackslash DiagnosisType = "missing_backslash"
	DiagnosisFractionFormat   DiagnosisType = "fraction_format"
	DiagnosisGreekLetter      DiagnosisType = "greek_letter_format"
	DiagnosisUnbalanced       DiagnosisType = "unbalanced_brackets"
)

// Diagnosis explains why an answer is probably wrong.
type Diagnosis struct {
	Type    DiagnosisType `json:"type"`
	Message string        `json:"message"`
}

// IsEquivalent reports whether user and target normalize to the same form.
// It never panics: if normalization fails, it compares the forms with only
// delimiters and whitespace removed, ignoring case.
func IsEquivalent(user, target string) (equivalent bool) {
	defer func() {
		if recover() != nil {
			equivalent = trivialForm(user) == trivialForm(target)
		}
	}()

	nu, err := Normalize(user)
	if err != nil {
		return trivialForm(user) == trivialForm(target)
	}
	nt, err := Normalize(target)
	if err != nil {
		return trivialForm(user) == trivialForm(target)
	}
	return nu == nt
}

// Evaluate grades a submission against the target.
//
// An answer identical to the target up to delimiters, whitespace and case
// never gets a tip. Other correct answers get the first applicable style
// tip. Incorrect answers may carry a diagnosis.
func Evaluate(user, target string) Evaluation {
	if !IsEquivalent(user, target) {
		return Evaluation{IsCorrect: false, Diagnosis: Diagnose(user, target)}
	}
	if trivialForm(user) == trivialForm(target) {
		return Evaluation{IsCorrect: true}
	}
	return Evaluation{IsCorrect: true, Tip: StyleTip(user, target)}
}
