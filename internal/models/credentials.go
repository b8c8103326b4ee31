package models

// Credentials are loaded once at process start and only read afterwards.
// String and GoString redact every value so credentials never end up in logs.
type Credentials struct {
	APIKey      string
	AccessToken string
	AuthorID    string
}

// MissingForGeneration reports keyEnv when no LLM key is set.
func (c Credentials) MissingForGeneration(keyEnv string) []string {
	if c.APIKey == "" {
		return []string{keyEnv}
	}
	return nil
}

// MissingForPublishing lists the env names needed to post to LinkedIn that are unset.
func (c Credentials) MissingForPublishing() []string {
	var missing []string
	if c.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if c.AuthorID == "" {
		missing = append(missing, "author_sub")
	}
	return missing
}

// AuthorURN is the LinkedIn person URN posts are created under.
func (c Credentials) AuthorURN() string {
	return "urn:li:person:" + c.AuthorID
}

func (c Credentials) String() string {
	return "Credentials{api_key:" + redact(c.APIKey) +
		" access_token:" + redact(c.AccessToken) +
		" author_id:" + redact(c.AuthorID) + "}"
}

func (c Credentials) GoString() string { return c.String() }

func redact(v string) string {
	if v == "" {
		return "<unset>"
	}
	return "<redacted>"
}
