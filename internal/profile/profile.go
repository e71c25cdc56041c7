package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the thread store driver (memory, sqlite or postgres)
	Driver string
	// DSN points to where thinktank stores its own data
	DSN string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your thinktank instance
	InstanceURL string

	// OpenRouter gateway configuration
	OpenRouterBaseURL string // THINKTANK_OPENROUTER_BASE_URL (default: https://openrouter.ai/api/v1)
	OpenRouterAPIKey  string // THINKTANK_OPENROUTER_API_KEY
	AppName           string // THINKTANK_APP_NAME, sent as X-Title attribution header
	AppURL            string // THINKTANK_APP_URL, sent as HTTP-Referer attribution header

	// Response cache configuration
	CacheCapacity        int           // THINKTANK_CACHE_CAPACITY (default: 1000)
	CacheCleanupInterval time.Duration // THINKTANK_CACHE_CLEANUP_INTERVAL (default: 1m)

	// Per-call generation timeout
	CallTimeout time.Duration // THINKTANK_CALL_TIMEOUT (default: 60s)

	// Rate limiting knobs for the message endpoints
	RateLimitPerSecond float64 // THINKTANK_RATE_LIMIT_PER_SECOND (default: 2)
	RateLimitBurst     int     // THINKTANK_RATE_LIMIT_BURST (default: 5)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// FromEnv loads configuration from THINKTANK_* environment variables.
// Values already set on the profile (e.g. from flags) take precedence
// only when the corresponding variable is absent.
func (p *Profile) FromEnv() {
	v := viper.New()
	v.SetEnvPrefix("thinktank")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("app_name", "ThinkTank")
	v.SetDefault("cache_capacity", 1000)
	v.SetDefault("cache_cleanup_interval", time.Minute)
	v.SetDefault("call_timeout", 60*time.Second)
	v.SetDefault("rate_limit_per_second", 2.0)
	v.SetDefault("rate_limit_burst", 5)

	p.OpenRouterBaseURL = v.GetString("openrouter_base_url")
	p.OpenRouterAPIKey = v.GetString("openrouter_api_key")
	p.AppName = v.GetString("app_name")
	p.AppURL = v.GetString("app_url")
	p.CacheCapacity = v.GetInt("cache_capacity")
	p.CacheCleanupInterval = v.GetDuration("cache_cleanup_interval")
	p.CallTimeout = v.GetDuration("call_timeout")
	p.RateLimitPerSecond = v.GetFloat64("rate_limit_per_second")
	p.RateLimitBurst = v.GetInt("rate_limit_burst")

	if mode := v.GetString("mode"); mode != "" && p.Mode == "" {
		p.Mode = mode
	}
	if driver := v.GetString("driver"); driver != "" && p.Driver == "" {
		p.Driver = driver
	}
	if dsn := v.GetString("dsn"); dsn != "" && p.DSN == "" {
		p.DSN = dsn
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "memory"
	}
	if p.Driver != "memory" && p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown store driver %q: only 'memory', 'sqlite' and 'postgres' are supported", p.Driver)
	}

	// The memory driver needs no data directory.
	if p.Driver == "memory" {
		return nil
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data dir")
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("thinktank_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	return nil
}
