package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"reports@rentreport.app"`
	SMTPFromName string `envconfig:"SMTP_FROM_NAME" default:"RentReport"`

	// ----------------------------
	// Workers
	// ----------------------------
	WorkerCount   int `envconfig:"WORKER_COUNT" default:"5"`
	RateLimit     int `envconfig:"RATE_LIMIT" default:"10"`
	RetryAttempts int `envconfig:"RETRY_ATTEMPTS" default:"3"`

	// ----------------------------
	// Scheduler
	// ----------------------------
	// Empty selects scheduler.DefaultSpec.
	ReportSchedule string `envconfig:"REPORT_SCHEDULE" default:""`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort string `envconfig:"API_PORT" default:"8080"`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// ----------------------------
	// Document store
	// ----------------------------
	MongoURI            string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase       string `envconfig:"MONGO_DATABASE" default:"rentreport"`
	LeasesCollection    string `envconfig:"LEASES_COLLECTION" default:"leases"`
	PaymentsCollection  string `envconfig:"PAYMENTS_COLLECTION" default:"payments"`
	InventoryCollection string `envconfig:"INVENTORY_COLLECTION" default:"inventory"`
	EmailLogsCollection string `envconfig:"EMAIL_LOGS_COLLECTION" default:"emailLogs"`

	// ----------------------------
	// Audit database (optional)
	// ----------------------------
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
}

// Report holds the settings a report run reads each time it is invoked.
// They are not required at startup.
type Report struct {
	Recipients        string `envconfig:"REPORT_RECIPIENTS" default:""`
	LandlordID        string `envconfig:"REPORT_LANDLORD_ID" default:""`
	AuditSendFailures bool   `envconfig:"REPORT_AUDIT_SEND_FAILURES" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}

func LoadReport() (Report, error) {
	var r Report
	err := envconfig.Process("", &r)
	return r, err
}
