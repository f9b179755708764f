// Package gemini drafts item descriptions with Google's Gemini API.
//
// The Drafter renders an embedded prompt template from an item's fields,
// sends it to the configured model through google.golang.org/genai and
// returns the model's Markdown text. Transient API failures are retried
// with exponential backoff and jitter; blocked or empty replies are not.
package gemini
