package notification

import "time"

// Config selects the notification template source and dedup window.
type Config struct {
	DedupInterval time.Duration `env:"NOTIFICATION_DEDUP_INTERVAL" envDefault:"10m" validate:"gt=0"`
	Template      string        `env:"NOTIFICATION_TEMPLATE" envDefault:"notification.html"`
	TemplatesDir  string        `env:"TEMPLATES_DIR"`
	S3Bucket      string        `env:"TEMPLATES_S3_BUCKET"`
	S3Region      string        `env:"TEMPLATES_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint    string        `env:"TEMPLATES_S3_ENDPOINT" validate:"omitempty,url"`
	S3Prefix      string        `env:"TEMPLATES_S3_PREFIX"`
	S3AccessKey   string        `env:"TEMPLATES_S3_ACCESS_KEY"`
	S3SecretKey   string        `env:"TEMPLATES_S3_SECRET_KEY"`
}
