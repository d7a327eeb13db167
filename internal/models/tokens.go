package models

import "fmt"

// TokenPair holds the bearer credentials issued by the cinema backend.
type TokenPair struct {
	Access  string
	Refresh string
}

// Empty reports whether the pair carries no access token.
func (t TokenPair) Empty() bool {
	return t.Access == ""
}

// WithAccess returns a copy of the pair with a new access token. A refresh token is only replaced
// when the backend issued a new one.
func (t TokenPair) WithAccess(access string, refresh string) TokenPair {
	output := t
	output.Access = access
	if refresh != "" {
		output.Refresh = refresh
	}
	return output
}

// String implements the Stringer interface for printing the tokens in logs
func (t TokenPair) String() string {
	return fmt.Sprintf(
		"TokenPair<Access: %s, Refresh: %s>",
		redact(t.Access),
		redact(t.Refresh),
	)
}

func redact(value string) string {
	if value == "" {
		return "none"
	}
	return fmt.Sprintf("redacted-%d-chars", len(value))
}
