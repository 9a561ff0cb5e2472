package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	c.applyFallbacks()
	return &c
}

func TestDefaultsAreValid(t *testing.T) {
	c := defaultConfig(t)
	if err := c.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}

	if c.Export.Page.WidthMm != 210 || c.Export.Page.HeightMm != 297 {
		t.Errorf("default page is not A4: %vx%v", c.Export.Page.WidthMm, c.Export.Page.HeightMm)
	}
	if c.Export.Page.Scale != 2 {
		t.Errorf("default scale %v", c.Export.Page.Scale)
	}
	if c.Export.Fonts.DebounceDelay != time.Second {
		t.Errorf("default debounce %v", c.Export.Fonts.DebounceDelay)
	}
	if c.Observability.ServiceName != "hirescan" {
		t.Errorf("service name %q", c.Observability.ServiceName)
	}
	if c.Observability.ServiceInstance == "" {
		t.Error("service instance not generated")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"zero page width", func(c *Config) { c.Export.Page.WidthMm = 0 }},
		{"zero content width", func(c *Config) { c.Export.Page.ContentWidthPx = 0 }},
		{"fractional downscale", func(c *Config) { c.Export.Page.Scale = 0.5 }},
		{"margins consume the page", func(c *Config) { c.Export.Page.TopMarginMm = 300 }},
		{"unknown TLS mode", func(c *Config) { c.Server.TLS.Mode = "mutual" }},
		{"server TLS without cert", func(c *Config) { c.Server.TLS.Mode = "server" }},
		{"bad TLS version", func(c *Config) {
			c.Server.TLS.Mode = "server"
			c.Server.TLS.CertFile = "cert.pem"
			c.Server.TLS.KeyFile = "key.pem"
			c.Server.TLS.MinVersion = "1.0"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig(t)
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("invalid configuration accepted")
			}
		})
	}
}

func TestValidateAcceptsServerTLS(t *testing.T) {
	c := defaultConfig(t)
	c.Server.TLS.Mode = "server"
	c.Server.TLS.CertFile = "cert.pem"
	c.Server.TLS.KeyFile = "key.pem"
	if err := c.Validate(); err != nil {
		t.Errorf("server TLS rejected: %v", err)
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("HIRESCAN_SERVER_APIKEYS", "key-a, key-b ,key-c")

	c := defaultConfig(t)
	want := []string{"key-a", "key-b", "key-c"}
	if len(c.Server.APIKeys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(c.Server.APIKeys), len(want))
	}
	for i, k := range want {
		if c.Server.APIKeys[i] != k {
			t.Errorf("key %d: %q, want %q", i, c.Server.APIKeys[i], k)
		}
	}
}

func TestDebugLogLevelEnablesConsoleTelemetry(t *testing.T) {
	c := defaultConfig(t)
	if c.Observability.ConsoleOutput {
		t.Fatal("console output on by default")
	}

	c2 := defaultConfig(t)
	c2.App.LogLevel = "debug"
	c2.applyFallbacks()
	if !c2.Observability.ConsoleOutput {
		t.Error("debug level did not enable console output")
	}
}
