package richtext

import "strings"

// wordsPerMinute is the reading speed the estimates assume.
const wordsPerMinute = 200

// ReadTime estimates reading minutes for a plain-text string: word count
// over 200 words per minute, rounded up, never below one minute.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// ReadTimeHTML estimates reading minutes for an HTML fragment.
func ReadTimeHTML(content string) int {
	return ReadTime(PlainText(content))
}
