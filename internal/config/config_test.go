package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/model"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) writeFile(body string) string {
	path := filepath.Join(s.T().TempDir(), "draftboard.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal("default", cfg.SessionID)
	s.Equal(StorageMemory, cfg.Storage.Type)
	s.Equal(8080, cfg.Server.Port)
	s.Equal(2*time.Second, cfg.Strategy.Timeout)
	s.Equal(12, cfg.League.NumTeams)
	s.Equal("My Team", cfg.League.TeamName(1))
}

func (s *ConfigSuite) TestLoadYAML() {
	path := s.writeFile(`
session_id: home-league
server:
  port: 9090
  allowed_origins: ["http://localhost:5173"]
storage:
  type: sqlite
  sqlite_path: /tmp/draft.db
strategy:
  timeout: 750ms
autosave:
  quiet_period: 1s
league:
  num_teams: 4
  draft_style: linear
  roster:
    - {position: QB, count: 1}
    - {position: RB, count: 2}
    - {position: BENCH, count: 3}
  teams:
    - {id: 2, name: Rivals, strategy: bpa, variability: 0.5}
`)
	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("home-league", cfg.SessionID)
	s.Equal(9090, cfg.Server.Port)
	s.Equal([]string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	s.Equal(StorageSQLite, cfg.Storage.Type)
	s.Equal(750*time.Millisecond, cfg.Strategy.Timeout)
	s.Equal(time.Second, cfg.Autosave.QuietPeriod)

	s.Equal(4, cfg.League.NumTeams)
	s.Equal(model.DraftStyleLinear, cfg.League.DraftStyle)
	s.Equal(6, cfg.League.Rounds())
	s.Len(cfg.League.Teams, 4)
	team, ok := cfg.League.Team(2)
	s.Require().True(ok)
	s.Equal("Rivals", team.Name)
	s.Equal("bpa", team.Strategy)
}

func (s *ConfigSuite) TestEnvOverridesFile() {
	path := s.writeFile("storage:\n  type: memory\n")
	s.T().Setenv("STORAGE_TYPE", "redis")
	s.T().Setenv("REDIS_URL", "redis://cache:6379")
	s.T().Setenv("DRAFTBOARD_PORT", "7000")
	s.T().Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(StorageRedis, cfg.Storage.Type)
	s.Equal("redis://cache:6379", cfg.Storage.RedisURL)
	s.Equal(7000, cfg.Server.Port)
	s.Equal("debug", cfg.LogLevel)
}

func (s *ConfigSuite) TestApplyEnvRejectsBadValues() {
	tests := map[string]string{
		"DRAFTBOARD_PORT":             "eighty",
		"DRAFTBOARD_STRATEGY_TIMEOUT": "soon",
	}
	for key, value := range tests {
		s.Run(key, func() {
			cfg := Default()
			err := cfg.applyEnv(func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			s.Error(err)
		})
	}
}

func (s *ConfigSuite) TestValidate() {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "no session", mutate: func(c *Config) { c.SessionID = " " }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "redis without url", mutate: func(c *Config) { c.Storage.Type = StorageRedis }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Type = StorageSQLite; c.Storage.SQLitePath = "" }},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "postgres" }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Strategy.Timeout = 0 }},
		{name: "bad league", mutate: func(c *Config) { c.League.NumTeams = 0 }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := Default()
			tt.mutate(&cfg)
			s.Error(cfg.Validate())
		})
	}
	s.NoError(Default().Validate())
}

func (s *ConfigSuite) TestMissingFile() {
	_, err := Load(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}

func (s *ConfigSuite) TestParseLevel() {
	level, err := ParseLevel("WARN")
	s.Require().NoError(err)
	s.Equal(slog.LevelWarn, level)

	level, err = ParseLevel("")
	s.Require().NoError(err)
	s.Equal(slog.LevelInfo, level)
}
