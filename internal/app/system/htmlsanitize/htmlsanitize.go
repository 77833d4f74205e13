// Package htmlsanitize strips unsafe HTML from user-generated content.
// Post and comment text passes through Sanitize before it is stored, so
// nothing downstream ever has to re-check it.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

// ugcPolicy returns the shared sanitization policy. bluemonday policies are
// safe for concurrent use once built.
func ugcPolicy() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize removes scripts, event handlers, and other unsafe markup while
// keeping benign formatting (paragraphs, emphasis, links, lists).
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return ugcPolicy().Sanitize(input)
}

// IsPlainText reports whether s contains no HTML tags at all.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
