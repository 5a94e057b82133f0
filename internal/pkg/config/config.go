package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Link budgets at or above this value disable the cross-brand link check.
const LinkBudgetDisabled = 999

type Config struct {
	Global GlobalConfig  `mapstructure:"global" json:"global"`
	Brands []BrandConfig `mapstructure:"brands" json:"brands"`

	path string
}

// Deployment-wide policy toggles and fetch settings.
type GlobalConfig struct {
	UserAgent                     string  `mapstructure:"user_agent" json:"user_agent"`
	TimeoutSeconds                int     `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	EnforceNonWWW                 bool    `mapstructure:"enforce_non_www" json:"enforce_non_www"`
	FollowRedirects               bool    `mapstructure:"follow_redirects" json:"follow_redirects"`
	RequireHTTPS                  bool    `mapstructure:"require_https" json:"require_https"`
	FailIfMarketingPageHasNoindex bool    `mapstructure:"fail_if_marketing_page_has_noindex" json:"fail_if_marketing_page_has_noindex"`
	RequireSelfCanonical          bool    `mapstructure:"require_self_canonical_on_marketing_pages" json:"require_self_canonical_on_marketing_pages"`
	DisallowCrossDomainCanonicals bool    `mapstructure:"disallow_cross_domain_canonicals" json:"disallow_cross_domain_canonicals"`
	MaxCrossBrandLinksPerPage     int     `mapstructure:"max_cross_brand_links_per_page" json:"max_cross_brand_links_per_page"`
	SitemapHostMustMatch          bool    `mapstructure:"sitemap_host_must_match" json:"sitemap_host_must_match"`
	MaxConcurrentBrands           int     `mapstructure:"max_concurrent_brands" json:"max_concurrent_brands"`
	RequestsPerSecond             float64 `mapstructure:"requests_per_second" json:"requests_per_second"`
}

// One brand in the deployment: its public marketing site plus the app hosts
// that must stay out of search indexes.
type BrandConfig struct {
	Name           string          `mapstructure:"name" json:"name"`
	MarketingHost  string          `mapstructure:"marketing_host" json:"marketing_host"`
	PreferredHost  string          `mapstructure:"preferred_host" json:"preferred_host"`
	MarketingPages []string        `mapstructure:"marketing_pages" json:"marketing_pages"`
	AppHosts       []AppHostConfig `mapstructure:"app_hosts" json:"app_hosts"`
}

type AppHostConfig struct {
	Host           string   `mapstructure:"host" json:"host"`
	RequireNoindex *bool    `mapstructure:"require_noindex" json:"require_noindex"`
	TestPaths      []string `mapstructure:"test_paths" json:"test_paths"`
}

// Loads, defaults and validates the audit configuration from the given file.
// JSON is canonical; viper also accepts YAML or TOML by extension.
// Environment variables prefixed with SEOAUDIT_ override file values
// (e.g. SEOAUDIT_GLOBAL_USER_AGENT).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Defaults for every optional global knob. Brand-level defaults live in
	// accessor methods because viper cannot reach inside the brands array.
	v.SetDefault("global.enforce_non_www", false)
	v.SetDefault("global.follow_redirects", true)
	v.SetDefault("global.require_https", true)
	v.SetDefault("global.fail_if_marketing_page_has_noindex", true)
	v.SetDefault("global.require_self_canonical_on_marketing_pages", true)
	v.SetDefault("global.disallow_cross_domain_canonicals", true)
	v.SetDefault("global.max_cross_brand_links_per_page", LinkBudgetDisabled)
	v.SetDefault("global.sitemap_host_must_match", true)
	v.SetDefault("global.max_concurrent_brands", 1)
	v.SetDefault("global.requests_per_second", 0.0)

	v.SetEnvPrefix("SEOAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %v: %w", path, err)
	}
	for _, key := range []string{"global", "brands"} {
		if !v.InConfig(key) {
			return nil, fmt.Errorf("config: %v is a required key", key)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.normalize()
	config.path = path
	return &config, nil
}

// Returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Invokes onChange whenever the given config file is rewritten. Watching
// runs for the life of the process; callers reload with Load themselves so
// a broken edit never replaces a working configuration.
func WatchFile(path string, onChange func()) {
	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(in fsnotify.Event) {
		onChange()
	})
	v.WatchConfig()
}

func (c *Config) validate() error {
	if c.Global.UserAgent == "" {
		return fmt.Errorf("config: global.user_agent is required")
	}
	if c.Global.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: global.timeout_seconds must be greater than 0")
	}
	if c.Global.RequestsPerSecond < 0 {
		return fmt.Errorf("config: global.requests_per_second must not be negative")
	}
	for i, brand := range c.Brands {
		if brand.Name == "" {
			return fmt.Errorf("config: brands[%d].name is required", i)
		}
		if brand.MarketingHost == "" {
			return fmt.Errorf("config: brands[%d] (%v): marketing_host is required", i, brand.Name)
		}
		for j, app := range brand.AppHosts {
			if app.Host == "" {
				return fmt.Errorf("config: brands[%d] (%v): app_hosts[%d].host is required", i, brand.Name, j)
			}
		}
	}
	return nil
}

func (c *Config) normalize() {
	if c.Global.MaxConcurrentBrands < 1 {
		c.Global.MaxConcurrentBrands = 1
	}
}

// Per-request timeout as a duration.
func (g GlobalConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Reports whether the cross-brand link budget check is enabled. Budgets at
// or above the sentinel mean "unlimited" and suppress the check entirely.
func (g GlobalConfig) LinkBudgetEnabled() bool {
	return g.MaxCrossBrandLinksPerPage < LinkBudgetDisabled
}

// The host marketing pages must canonicalize to and redirects must land on.
// Defaults to the marketing host itself.
func (b BrandConfig) Preferred() string {
	if b.PreferredHost != "" {
		return b.PreferredHost
	}
	return b.MarketingHost
}

// Marketing paths to check, defaulting to the root page.
func (b BrandConfig) Pages() []string {
	if len(b.MarketingPages) == 0 {
		return []string{"/"}
	}
	return b.MarketingPages
}

// App paths to probe, defaulting to the root page.
func (a AppHostConfig) Paths() []string {
	if len(a.TestPaths) == 0 {
		return []string{"/"}
	}
	return a.TestPaths
}

// Whether this app host must serve a noindex signal. An absent key means
// true; only an explicit false disables the rule.
func (a AppHostConfig) NoindexRequired() bool {
	if a.RequireNoindex == nil {
		return true
	}
	return *a.RequireNoindex
}
