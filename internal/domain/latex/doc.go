// Package latex decides whether a typed LaTeX answer matches a target
// formula.
//
// Matching is heuristic. Both formulas are parsed into a tree of commands,
// characters and brace groups, rewritten into a canonical form and compared
// as strings. The rewrites cover the harmless variations learners produce:
// math delimiters, whitespace, optional braces on scripts and command
// arguments, script order, operator and command synonyms, sizing commands,
// bare function names and integer fractions written with a slash. Forms
// outside these rules are not recognized, and some distinct formulas
// compare equal (case is ignored, so \Delta matches \delta).
//
// Correct answers that differ from the target's spelling may receive one
// style Tip. Incorrect answers may receive a Diagnosis of a common mistake.
// IsEquivalent, Evaluate, StyleTip and Diagnose never fail: a formula the
// normalizer rejects is compared in its trivial form instead.
package latex
