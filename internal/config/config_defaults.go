package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	// AI defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// Per-operation circuit breaker defaults
	for _, op := range []string{"roleFit", "roadmap", "interview", "assessment", "jobs"} {
		v.SetDefault("ai."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.interval", "60s")
		v.SetDefault("ai."+op+".circuitBreaker.timeout", "30s")
		v.SetDefault("ai."+op+".circuitBreaker.minRequests", 5)
		v.SetDefault("ai."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Gateway defaults
	v.SetDefault("gateway.resumeFeedbackDelay", "1500ms")
	v.SetDefault("gateway.authDelay", "500ms")
	v.SetDefault("gateway.interviewContextMessages", 4)

	// Storage defaults
	v.SetDefault("storage.dataDir", "./data")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "180s")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.maxRequestSize", 1048576) // 1MB

	// TLS defaults
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.watch", false)
	v.SetDefault("server.tls.debounceDelay", "1s")

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", true)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", true)
	v.SetDefault("server.rateLimit.window", "1m")

	// App defaults
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"text", "json", "markdown"})
	v.SetDefault("app.maxFileSize", 10485760) // 10MB

	// Vault defaults
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.pollInterval", "5m")
	v.SetDefault("vault.secrets.apiKeys", "secret/data/careercompass/api-keys")
	v.SetDefault("vault.secrets.geminiKey", "secret/data/careercompass/gemini")

	// Observability defaults
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "careercompass")
	v.SetDefault("observability.serviceVersion", "1.0.0")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", "30s")
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.gateway.enabled", true)
	v.SetDefault("observability.customMetrics.gateway.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", false)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4317")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.healthCheck.timeout", 5*time.Second)
}

// applyFallbacks fills values viper cannot express directly: well-known
// provider environment variables and instance identity.
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if c.Vault.Token == "" {
		c.Vault.Token = os.Getenv("VAULT_TOKEN")
	}
	if c.Vault.Address == "" {
		c.Vault.Address = os.Getenv("VAULT_ADDR")
	}

	if c.Observability.ServiceInstance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		c.Observability.ServiceInstance = hostname
	}

	if c.Server.RateLimit.Window <= 0 {
		c.Server.RateLimit.Window = time.Minute
	}
}
