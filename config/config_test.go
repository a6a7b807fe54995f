package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	yaml := `
database:
  host: localhost
  port: 5432
  user: arena
  password: arena
  dbname: arena
  sslmode: disable
nats:
  host: localhost
  port: 4222
  stream:
    name: ARENA
    subjects:
      - "arena.>"
server:
  port: "8080"
temporal:
  hostport: "localhost:7233"
arena:
  upgrade_cost: 5000
  decimals: 9
`
	if err := os.WriteFile(configFile, []byte(yaml), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	viper.Reset()
	viper.AddConfigPath(dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 4222, cfg.NATS.Port)
	assert.Equal(t, []string{"arena.>"}, cfg.NATS.Stream.Subjects)
	assert.Equal(t, "arena-task-queue", cfg.Temporal.TaskQueue)
	assert.Equal(t, uint64(5000), cfg.Arena.UpgradeCost)
}
