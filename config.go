package stormlin

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/syssam/stormlin/dialect"
	"github.com/syssam/stormlin/dialect/sql"
)

// EnvDSN names the environment variable overriding the configured data source.
const EnvDSN = "STORMLIN_DSN"

// Config describes a database connection and the Orm settings on top of it.
//
//	driver: mysql
//	host: localhost
//	port: 3306
//	user: root
//	password: secret
//	database: perry
//	debug: true
//	slow_threshold: 200ms
type Config struct {
	// Driver is the database/sql driver name: mysql, postgres or sqlite.
	Driver string `yaml:"driver"`

	// DSN is the complete data source. When set, the connection fields
	// below are ignored.
	DSN string `yaml:"dsn,omitempty"`

	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Database is the schema name, or the file path for SQLite.
	Database string `yaml:"database,omitempty"`

	// Params are extra driver parameters appended to the data source.
	Params map[string]string `yaml:"params,omitempty"`

	// Debug logs every executed statement.
	Debug bool `yaml:"debug,omitempty"`

	// SlowThreshold enables query statistics and logs statements slower
	// than the threshold.
	SlowThreshold time.Duration `yaml:"slow_threshold,omitempty"`
}

// LoadConfig reads a YAML configuration file. The STORMLIN_DSN
// environment variable, when set, replaces the data source of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	if dsn, ok := os.LookupEnv(EnvDSN); ok && dsn != "" {
		cfg.DSN = dsn
	}
	return cfg, nil
}

// ParseConfig decodes a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DataSource returns the data source name for the configured driver.
func (c *Config) DataSource() (string, error) {
	if c.Driver == "" {
		return "", &ConfigError{Op: "config", Err: errors.New("driver is required")}
	}
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch {
	case strings.HasPrefix(c.Driver, dialect.MySQL):
		return c.mysqlDSN(), nil
	case strings.HasPrefix(c.Driver, dialect.Postgres):
		return c.postgresDSN(), nil
	case strings.HasPrefix(c.Driver, dialect.SQLite):
		if c.Database == "" {
			return "", &ConfigError{Op: "config", Err: errors.New("sqlite database path is required")}
		}
		return c.sqliteDSN(), nil
	default:
		return "", &ConfigError{Op: "config", Err: fmt.Errorf("unsupported driver %q without dsn", c.Driver)}
	}
}

func (c *Config) addr(port int) string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	if c.Port != 0 {
		port = c.Port
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (c *Config) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.addr(3306)
	mc.DBName = c.Database
	mc.ParseTime = true
	if len(c.Params) > 0 {
		mc.Params = c.Params
	}
	return mc.FormatDSN()
}

func (c *Config) postgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.addr(5432),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := url.Values{}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) sqliteDSN() string {
	if len(c.Params) == 0 {
		return c.Database
	}
	q := url.Values{}
	for k, v := range c.Params {
		q.Set(k, v)
	}
	sep := "?"
	if strings.Contains(c.Database, "?") {
		sep = "&"
	}
	return c.Database + sep + q.Encode()
}

// Options returns the Orm options selected by the configuration.
func (c *Config) Options() []Option {
	var opts []Option
	if c.SlowThreshold > 0 {
		opts = append(opts, WithStats(sql.WithSlowThreshold(c.SlowThreshold)))
	}
	if c.Debug {
		opts = append(opts, WithDebug())
	}
	return opts
}

// OpenConfig opens the database described by c. Options given here are
// applied after the ones derived from c.
func OpenConfig(c *Config, opts ...Option) (*Orm, error) {
	if c == nil {
		return nil, &ConfigError{Op: "config", Err: errors.New("nil config")}
	}
	dsn, err := c.DataSource()
	if err != nil {
		return nil, err
	}
	return Open(c.Driver, dsn, append(c.Options(), opts...)...)
}
