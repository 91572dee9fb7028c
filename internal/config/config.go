package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// API key precedence order:
// 1. Vault (if configured) - highest priority
// 2. Config file values
// 3. Environment variables (CAREERCOMPASS_AI_APIKEY, etc.)
// 4. Default values - lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI service configuration: global defaults plus per-operation
// overrides. The interview config also covers summaries; the assessment
// config also covers assessment recommendations.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	RoleFit    OperationAIConfig `mapstructure:"roleFit"`
	Roadmap    OperationAIConfig `mapstructure:"roadmap"`
	Interview  OperationAIConfig `mapstructure:"interview"`
	Assessment OperationAIConfig `mapstructure:"assessment"`
	Jobs       OperationAIConfig `mapstructure:"jobs"`
}

// OperationAIConfig holds AI configuration for a specific operation. Pointer
// fields distinguish "unset" from an explicit zero.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// PromptConfig holds customizable prompts. Each slot has an inline value and
// a File variant pointing at an external prompt file.
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts contains system-level instructions per operation
type SystemPrompts struct {
	RoleFit                  string `mapstructure:"roleFit"`
	RoleFitFile              string `mapstructure:"roleFitFile"`
	Roadmap                  string `mapstructure:"roadmap"`
	RoadmapFile              string `mapstructure:"roadmapFile"`
	InterviewResponse        string `mapstructure:"interviewResponse"`
	InterviewResponseFile    string `mapstructure:"interviewResponseFile"`
	InterviewSummary         string `mapstructure:"interviewSummary"`
	InterviewSummaryFile     string `mapstructure:"interviewSummaryFile"`
	AssessmentQuestions      string `mapstructure:"assessmentQuestions"`
	AssessmentQuestionsFile  string `mapstructure:"assessmentQuestionsFile"`
	RecommendAssessments     string `mapstructure:"recommendAssessments"`
	RecommendAssessmentsFile string `mapstructure:"recommendAssessmentsFile"`
	JobMatch                 string `mapstructure:"jobMatch"`
	JobMatchFile             string `mapstructure:"jobMatchFile"`
}

// UserPrompts contains user-level prompt templates per operation
type UserPrompts struct {
	RoleFit                  string `mapstructure:"roleFit"`
	RoleFitFile              string `mapstructure:"roleFitFile"`
	Roadmap                  string `mapstructure:"roadmap"`
	RoadmapFile              string `mapstructure:"roadmapFile"`
	InterviewResponse        string `mapstructure:"interviewResponse"`
	InterviewResponseFile    string `mapstructure:"interviewResponseFile"`
	InterviewSummary         string `mapstructure:"interviewSummary"`
	InterviewSummaryFile     string `mapstructure:"interviewSummaryFile"`
	AssessmentQuestions      string `mapstructure:"assessmentQuestions"`
	AssessmentQuestionsFile  string `mapstructure:"assessmentQuestionsFile"`
	RecommendAssessments     string `mapstructure:"recommendAssessments"`
	RecommendAssessmentsFile string `mapstructure:"recommendAssessmentsFile"`
	JobMatch                 string `mapstructure:"jobMatch"`
	JobMatchFile             string `mapstructure:"jobMatchFile"`
}

// GatewayConfig tunes the non-AI behavior of the gateway and the mock
// authenticator.
type GatewayConfig struct {
	ResumeFeedbackDelay      time.Duration `mapstructure:"resumeFeedbackDelay"`
	AuthDelay                time.Duration `mapstructure:"authDelay"`
	InterviewContextMessages int           `mapstructure:"interviewContextMessages"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DataDir string `mapstructure:"dataDir"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys for authentication
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Mode       string `mapstructure:"mode"` // "disabled", "server", "mutual"
	CertFile   string `mapstructure:"certFile"`
	KeyFile    string `mapstructure:"keyFile"`
	CAFile     string `mapstructure:"caFile"` // required for mutual mode
	MinVersion string `mapstructure:"minVersion"`

	// Live certificate reload via file watching
	Watch         bool          `mapstructure:"watch"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// VaultConfig holds HashiCorp Vault configuration for secret loading.
type VaultConfig struct {
	Enabled      bool               `mapstructure:"enabled"`
	Address      string             `mapstructure:"address"`
	Token        string             `mapstructure:"token"`
	TokenFile    string             `mapstructure:"tokenFile"`
	Namespace    string             `mapstructure:"namespace"`
	PollInterval time.Duration      `mapstructure:"pollInterval"`
	Secrets      VaultSecretsConfig `mapstructure:"secrets"`
}

// VaultSecretsConfig names the KV paths holding each secret.
type VaultSecretsConfig struct {
	APIKeys   string `mapstructure:"apiKeys"`
	GeminiKey string `mapstructure:"geminiKey"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// HealthCheckConfig bounds the time the health endpoint spends probing the
// AI provider.
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations   AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	Gateway        GatewayMetricsConfig        `mapstructure:"gateway"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// GatewayMetricsConfig holds gateway fallback metrics configuration
type GatewayMetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TrackFallbacks bool `mapstructure:"trackFallbacks"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CAREERCOMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/careercompass/")
	v.AddConfigPath("$HOME/.careercompass")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid. A missing AI API key is not
// an error: the gateway runs in fallback-only mode without one.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage data directory is required")
	}

	if c.Gateway.InterviewContextMessages <= 0 {
		return fmt.Errorf("gateway interview context window must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server":
		if tls.CertFile == "" || tls.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required for server mode")
		}
	case "mutual":
		if tls.CertFile == "" || tls.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required for mutual mode")
		}
		if tls.CAFile == "" {
			return fmt.Errorf("CA certificate file is required for mutual TLS mode")
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}

	return nil
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetRoleFitConfig returns the AI configuration for role-fit operations.
func (c *Config) GetRoleFitConfig() OperationAIConfig {
	config := c.AI.RoleFit
	c.applyOperationDefaults(&config)
	return config
}

// GetRoadmapConfig returns the AI configuration for roadmap generation.
func (c *Config) GetRoadmapConfig() OperationAIConfig {
	config := c.AI.Roadmap
	c.applyOperationDefaults(&config)
	return config
}

// GetInterviewConfig returns the AI configuration for interview turns and
// summaries.
func (c *Config) GetInterviewConfig() OperationAIConfig {
	config := c.AI.Interview
	c.applyOperationDefaults(&config)
	return config
}

// GetAssessmentConfig returns the AI configuration for assessment question
// generation and recommendations.
func (c *Config) GetAssessmentConfig() OperationAIConfig {
	config := c.AI.Assessment
	c.applyOperationDefaults(&config)
	return config
}

// GetJobsConfig returns the AI configuration for job matching.
func (c *Config) GetJobsConfig() OperationAIConfig {
	config := c.AI.Jobs
	c.applyOperationDefaults(&config)
	return config
}
