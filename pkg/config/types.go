package config

// AppConfig is the application base configuration.
type AppConfig struct {
	Env    string `yaml:"env" mapstructure:"env"`
	NodeID string `yaml:"node_id" mapstructure:"node_id"`
}

// LogConfig controls log format, level and caller reporting.
type LogConfig struct {
	Format       string `yaml:"format" mapstructure:"format"`
	Level        string `yaml:"level" mapstructure:"level"`
	ReportCaller bool   `yaml:"report_caller" mapstructure:"report_caller"`
}

// RedisConfig is the Redis connection configuration. Redis backs the
// cross-instance authentication attempt counters.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Db       int    `yaml:"db" mapstructure:"db"`
}

// KafkaConfig configures the vehicle signal feed.
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers       []string `yaml:"brokers" mapstructure:"brokers"`
	Topic         string   `yaml:"topic" mapstructure:"topic"`
	EgressTopic   string   `yaml:"egress_topic" mapstructure:"egress_topic"`
	ConsumerGroup string   `yaml:"consumer_group" mapstructure:"consumer_group"`
	ClientID      string   `yaml:"client_id" mapstructure:"client_id"`
	Username      string   `yaml:"username" mapstructure:"username"`
	Password      string   `yaml:"password" mapstructure:"password"`
	SASLMechanism string   `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	TLSEnabled    bool     `yaml:"tls_enabled" mapstructure:"tls_enabled"`
}

// TokenConfig configures authorize-action token validation.
type TokenConfig struct {
	SecretKey     string   `yaml:"secret_key" mapstructure:"secret_key"`
	TTL           Duration `yaml:"ttl" mapstructure:"ttl"`
	ClockSkew     Duration `yaml:"clock_skew" mapstructure:"clock_skew"`
	MaxAttempts   int      `yaml:"max_attempts" mapstructure:"max_attempts"`
	AttemptWindow Duration `yaml:"attempt_window" mapstructure:"attempt_window"`
}

// ServerConfig configures the WebSocket endpoint.
type ServerConfig struct {
	ListenAddr          string `yaml:"listen_addr" mapstructure:"listen_addr"`
	Path                string `yaml:"path" mapstructure:"path"`
	MaxMessageBytes     int64  `yaml:"max_message_bytes" mapstructure:"max_message_bytes"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	// RequestsPerSecond caps the request rate per connection; beyond it the
	// client receives too_many_requests.
	RequestsPerSecond int `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	RequestBurst      int `yaml:"request_burst" mapstructure:"request_burst"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// TracingConfig configures distributed tracing export.
type TracingConfig struct {
	Exporter     string            `yaml:"exporter" mapstructure:"exporter"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string            `yaml:"service_name" mapstructure:"service_name"`
	Insecure     bool              `yaml:"insecure" mapstructure:"insecure"`
	SampleRatio  float64           `yaml:"sample_ratio" mapstructure:"sample_ratio"`
	ResourceTags map[string]string `yaml:"resource_tags" mapstructure:"resource_tags"`
}

// Config is the root configuration of the VIS server binary.
type Config struct {
	App     AppConfig     `yaml:"app" mapstructure:"app"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Token   TokenConfig   `yaml:"token" mapstructure:"token"`
	Redis   RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka" mapstructure:"kafka"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults applies defaults on every section.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Kafka.ApplyDefaults()
}
