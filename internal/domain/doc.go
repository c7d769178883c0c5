// Package domain contains the core entities of the vocabulary scheduler:
// the Card that carries one word's spaced-repetition state, the review
// Quality/Rating scales, and the per-level Analytics summary. It is
// independent of any storage or delivery mechanism.
package domain
