// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Model         ModelConfig        `mapstructure:"model"`
	Survey        SurveyConfig       `mapstructure:"survey"`
	Alerts        AlertsConfig       `mapstructure:"alerts"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Server        ServerConfig       `mapstructure:"server"`
	Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	AlertIndex string   `mapstructure:"alert_index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// --- Pipeline Configuration ---

// ModelConfig holds the classifier settings. One trained model per process;
// retraining requires a restart or an explicit pipeline re-run.
type ModelConfig struct {
	Strategy     string  `mapstructure:"strategy"`
	Trees        int     `mapstructure:"trees"`
	Seed         int64   `mapstructure:"seed"`
	TestFraction float64 `mapstructure:"test_fraction"`
}

// SurveyConfig names the non-question columns of the record set. Everything
// numeric and not listed here is treated as a survey question.
type SurveyConfig struct {
	IdentifierColumn   string   `mapstructure:"identifier_column"`
	SequenceColumn     string   `mapstructure:"sequence_column"`
	LabelColumn        string   `mapstructure:"label_column"`
	GroupDimensions    []string `mapstructure:"group_dimensions"`
	MaxQuestionColumns int      `mapstructure:"max_question_columns"`

	// QuestionColumns restricts which numeric columns count as survey
	// questions. Empty means every eligible numeric column qualifies.
	QuestionColumns []string `mapstructure:"question_columns"`
}

// AlertRule is one configured threshold condition.
type AlertRule struct {
	Feature   string  `mapstructure:"feature" json:"feature"`
	Direction string  `mapstructure:"direction" json:"direction"` // "low" or "high"
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
	Label     string  `mapstructure:"label" json:"label"`
}

type AlertsConfig struct {
	Rules []AlertRule `mapstructure:"rules"`
}

type NotificationConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AWSRegion    string   `mapstructure:"aws_region"`
	SenderEmail  string   `mapstructure:"sender_email"`
	RecipientIDs []string `mapstructure:"recipients"`
	SNSTopicARN  string   `mapstructure:"sns_topic_arn"`
}

type ServerConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
