package config

import "testing"

func TestValidate_InvalidTransport(t *testing.T) {
	cfg := Config{
		Server:   ServerConfig{Transport: "grpc", Port: 8790},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid transport")
	}

	expected := `server.transport must be "stdio" or "http", got "grpc"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Transport: "stdio", Port: 8790},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()

	if cfg.Server.Transport != "stdio" {
		t.Errorf("expected default transport stdio, got %q", cfg.Server.Transport)
	}
	if cfg.Server.Port != 8790 {
		t.Errorf("expected default port 8790, got %d", cfg.Server.Port)
	}
	if cfg.Database.KeyPrefix != "catalog:" {
		t.Errorf("expected default key prefix, got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected default readiness timeout, got %d", cfg.Database.ReadinessTimeout)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CATALOG_TEST_PASSWORD", "s3cret")

	in := []byte("password: ${CATALOG_TEST_PASSWORD}\nprefix: ${CATALOG_TEST_MISSING:-catalog:}\n")
	out := string(expandEnvVars(in))

	want := "password: s3cret\nprefix: catalog:\n"
	if out != want {
		t.Errorf("env expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
