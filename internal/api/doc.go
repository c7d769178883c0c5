// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the study service to HTTP: words are saved
// and looked up, cards are reviewed and postponed, and levels report their
// due queue and progress.
package api
