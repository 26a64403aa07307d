package email

// Config holds the outbound email settings. Without Postmark tokens the process
// falls back to LogSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"DEFAULT_EMAIL,required" validate:"email"`
	SupportEmail         string `env:"SUPPORT_EMAIL" validate:"omitempty,email"`
}

// PostmarkEnabled reports whether both Postmark tokens are present.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
