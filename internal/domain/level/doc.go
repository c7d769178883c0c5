// Package level normalizes heterogeneous HSK level labels ("hsk3", "HSK 7–9",
// "4", 5) into the canonical key space shared by card creation, due-queue
// building and progress analytics.
package level
