package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.Lifetime)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9090
jwt:
  lifetime: 1h
admins:
  - username: root
    email: root@example.com
    password: Root#12345
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("BOOKSTORE_JWT_SECRET", "from-env-secret")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.JWT.Lifetime)
	assert.Equal(t, "from-env-secret", cfg.JWT.Secret)
	require.Len(t, cfg.Admins, 1)
	assert.Equal(t, "root", cfg.Admins[0].Username)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "debug"},
			Database: DatabaseConfig{Driver: DriverMemory},
			JWT:      JWTConfig{Secret: "secret", Lifetime: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"合法配置", func(*Config) {}, false},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"未知驱动", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"空密钥", func(c *Config) { c.JWT.Secret = "" }, true},
		{"非正有效期", func(c *Config) { c.JWT.Lifetime = 0 }, true},
		{"生产环境短密钥", func(c *Config) { c.Server.Mode = "release" }, true},
		{"生产环境长密钥", func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
		}, false},
		{"管理员缺少密码", func(c *Config) { c.Admins = []AdminAccount{{Username: "a"}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Username: "u", Password: "p", Host: "db", Port: 3306, DBName: "bookstore", Charset: "utf8mb4", Loc: "Asia/Shanghai"}
	assert.Equal(t, "u:p@tcp(db:3306)/bookstore?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
