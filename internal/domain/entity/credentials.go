package entity

import "strings"

// Credentials is the pair of secrets needed to reach the language model and
// the search service. It is passed explicitly into every constructor that
// needs it and never written to process environment.
type Credentials struct {
	LLMAPIKey    string
	SearchAPIKey string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.LLMAPIKey) == "" || strings.TrimSpace(c.SearchAPIKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Merge fills blank fields of c from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		c.LLMAPIKey = fallback.LLMAPIKey
	}
	if strings.TrimSpace(c.SearchAPIKey) == "" {
		c.SearchAPIKey = fallback.SearchAPIKey
	}
	return c
}

func (c Credentials) Complete() bool {
	return c.Validate() == nil
}
