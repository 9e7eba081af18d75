package email

// Config selects and configures the sender. With both Postmark tokens set
// New returns a Postmark sender; otherwise messages are written to DevDir.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@localhost"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// New returns the sender described by cfg.
func New(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken != "" || cfg.PostmarkAccountToken != "" {
		return NewPostmarkClient(cfg)
	}
	return NewDevSender(cfg.DevDir), nil
}
