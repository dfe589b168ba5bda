package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	conf := New()

	if conf.AppName != "avif-converter" {
		t.Errorf("app name: got %q", conf.AppName)
	}
	if conf.Port != "8080" {
		t.Errorf("port: got %q", conf.Port)
	}
	if conf.RateLimitDuration != 5*time.Second {
		t.Errorf("rate limit duration: got %v", conf.RateLimitDuration)
	}
	if conf.BodyLimit() != 32<<20 {
		t.Errorf("body limit: got %d", conf.BodyLimit())
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "converter-stage")
	t.Setenv("PORT", "9090")
	t.Setenv("BODY_LIMIT_MB", "8")
	t.Setenv("RATE_LIMIT_DURATION", "30s")

	conf := New()

	if conf.AppName != "converter-stage" {
		t.Errorf("app name: got %q", conf.AppName)
	}
	if conf.Port != "9090" {
		t.Errorf("port: got %q", conf.Port)
	}
	if conf.BodyLimit() != 8<<20 {
		t.Errorf("body limit: got %d", conf.BodyLimit())
	}
	if conf.RateLimitDuration != 30*time.Second {
		t.Errorf("rate limit duration: got %v", conf.RateLimitDuration)
	}
}
