package config

import "os"

// Environment variable names for API credentials.
// Credentials are read once at startup and never mutated afterwards.
const (
	EnvRedditClientID     = "REDDIT_CLIENT_ID"
	EnvRedditClientSecret = "REDDIT_CLIENT_SECRET" //nolint:gosec // env var name, not a credential
	EnvRedditUsername     = "REDDIT_USERNAME"
	EnvRedditPassword     = "REDDIT_PASSWORD"
	EnvLLMAPIKey          = "OPENAI_API_KEY"      //nolint:gosec // env var name, not a credential
	EnvClusterAPIKey      = "CLUSTER_API_KEY"     //nolint:gosec // env var name, not a credential
	EnvSheetsAccessToken  = "SHEETS_ACCESS_TOKEN" //nolint:gosec // env var name, not a credential
	EnvDispatchToken      = "DISPATCH_TOKEN"      //nolint:gosec // env var name, not a credential
)

// Credentials holds the API credentials for all external services.
// Values are process-wide and read-only after LoadCredentials; they are
// passed by value into the clients that need them rather than accessed
// through globals.
type Credentials struct {
	// RedditClientID is the Reddit application client id.
	RedditClientID string

	// RedditClientSecret is the Reddit application client secret.
	RedditClientSecret string

	// RedditUsername is the Reddit account used for the password grant.
	RedditUsername string

	// RedditPassword is the Reddit account password.
	RedditPassword string

	// LLMAPIKey is the language-model API key.
	LLMAPIKey string

	// ClusterAPIKey is the clustering-service API key.
	ClusterAPIKey string

	// SheetsAccessToken is the OAuth access token for the spreadsheet API.
	SheetsAccessToken string

	// DispatchToken is the bearer token for remote-dispatch requests.
	DispatchToken string
}

// LoadCredentials reads all API credentials from the environment.
// Missing variables yield empty fields; which fields are actually required
// depends on the command, so validation is deferred to the Require* methods.
func LoadCredentials() Credentials {
	return Credentials{
		RedditClientID:     os.Getenv(EnvRedditClientID),
		RedditClientSecret: os.Getenv(EnvRedditClientSecret),
		RedditUsername:     os.Getenv(EnvRedditUsername),
		RedditPassword:     os.Getenv(EnvRedditPassword),
		LLMAPIKey:          os.Getenv(EnvLLMAPIKey),
		ClusterAPIKey:      os.Getenv(EnvClusterAPIKey),
		SheetsAccessToken:  os.Getenv(EnvSheetsAccessToken),
		DispatchToken:      os.Getenv(EnvDispatchToken),
	}
}

// RequireReddit verifies that all four Reddit OAuth values are present.
func (c Credentials) RequireReddit() error {
	if c.RedditClientID == "" || c.RedditClientSecret == "" ||
		c.RedditUsername == "" || c.RedditPassword == "" {
		return ErrMissingRedditCredentials
	}
	return nil
}

// RequireLLM verifies that the language-model API key is present.
func (c Credentials) RequireLLM() error {
	if c.LLMAPIKey == "" {
		return ErrMissingLLMKey
	}
	return nil
}

// RequireSheets verifies that the spreadsheet access token is present.
func (c Credentials) RequireSheets() error {
	if c.SheetsAccessToken == "" {
		return ErrMissingSheetsToken
	}
	return nil
}

// RequireDispatch verifies that the remote-dispatch token is present.
func (c Credentials) RequireDispatch() error {
	if c.DispatchToken == "" {
		return ErrMissingDispatchToken
	}
	return nil
}
