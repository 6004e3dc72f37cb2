// Package domain contains the core entities of the trainer: users, lessons and
// their cards, practice attempts and the per-exercise review records driven by
// the spaced repetition scheduler in the srs subpackage. It is independent of
// storage and transport.
package domain
