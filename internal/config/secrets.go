package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields
// replaced by the redaction placeholder "***". Use this when logging or
// printing the active configuration so the signing key is never
// accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg
	redact(&out.Wallet.PrivateKey)
	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
