package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/btreemset/pkg/config"
)

func TestInitCommandWritesDefaultConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "msetd_init_test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")

	rootCmd.SetArgs([]string{"init", "--config", configPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute: %v", err)
	}

	if !config.ConfigExists(configPath) {
		t.Fatalf("expected config file at %s", configPath)
	}

	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *config.DefaultConfig() {
		t.Fatalf("got %+v, want default config", loaded)
	}
}

func TestInitCommandRefusesOverwriteWithoutForce(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "msetd_init_test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	custom := &config.Config{Degree: 7, Port: 1234, Bind: "10.0.0.1", Logging: config.Logging{Level: "debug"}}
	if err := config.SaveConfig(custom, configPath); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	rootCmd.SetArgs([]string{"init", "--config", configPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute: %v", err)
	}

	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *custom {
		t.Fatalf("expected existing config preserved, got %+v", loaded)
	}

	rootCmd.SetArgs([]string{"init", "--config", configPath, "--force"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute with --force: %v", err)
	}
	loaded, err = config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig after force: %v", err)
	}
	if *loaded != *config.DefaultConfig() {
		t.Fatalf("expected default config after --force, got %+v", loaded)
	}
}
