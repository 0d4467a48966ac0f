package folio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/repos"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "folio.yaml"

// Config holds all configuration for a folio site.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Paths    PathsConfig    `yaml:"paths"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Images   ImageConfig    `yaml:"images"`
	GitHub   GitHubConfig   `yaml:"github"`
	Server   ServerConfig   `yaml:"server"`
}

// SiteConfig describes the published site. URL enables feed.xml and
// sitemap.xml when set.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

type PathsConfig struct {
	Src   string `yaml:"src"`   // default "src"
	Dist  string `yaml:"dist"`  // default "dist/site"
	Cache string `yaml:"cache"` // default ".folio/cache.db"; "-" disables the cache
}

type MarkdownConfig struct {
	Engine string `yaml:"engine"` // builtin or goldmark
}

type ImageConfig struct {
	MaxWidth int `yaml:"max_width"` // 0 copies assets unchanged
	Quality  int `yaml:"quality"`   // JPEG quality, default 80
}

type GitHubConfig struct {
	Username    string        `yaml:"username"`
	Token       string        `yaml:"token"`
	BaseURL     string        `yaml:"base_url"`
	SortBy      string        `yaml:"sort_by"`
	MaxProjects int           `yaml:"max_projects"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	Filters     repos.Filters `yaml:"filters"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // default ":4173"
}

// CacheDisabled is the paths.cache value that turns the GitHub cache off.
const CacheDisabled = "-"

func (c *Config) setDefaults() {
	if c.Paths.Src == "" {
		c.Paths.Src = "src"
	}
	if c.Paths.Dist == "" {
		c.Paths.Dist = filepath.Join("dist", "site")
	}
	if c.Paths.Cache == "" {
		c.Paths.Cache = filepath.Join(".folio", "cache.db")
	}
	if c.Markdown.Engine == "" {
		c.Markdown.Engine = markdown.EngineBuiltin
	}
	if c.Images.Quality == 0 {
		c.Images.Quality = 80
	}
	if c.GitHub.SortBy == "" {
		c.GitHub.SortBy = repos.SortUpdated
	}
	if c.GitHub.MaxProjects == 0 {
		c.GitHub.MaxProjects = repos.DefaultMaxProjects
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":4173"
	}
}

// applyEnv overlays environment variables on the file configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("FOLIO_SRC"); v != "" {
		c.Paths.Src = v
	}
	if v := os.Getenv("FOLIO_DIST"); v != "" {
		c.Paths.Dist = v
	}
}

// LoadConfig reads the YAML file at path, applies environment overrides and
// defaults, and validates the result. A missing file is not an error when
// path is the default location.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
	default:
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	return validation.Errors{
		"site.url": validation.Validate(c.Site.URL, is.RequestURL),
		"paths.dist": validation.Validate(c.Paths.Dist, validation.Required,
			validation.By(distDiffersFrom(c.Paths.Src))),
		"markdown.engine": validation.Validate(c.Markdown.Engine,
			validation.In(markdown.EngineBuiltin, markdown.EngineGoldmark)),
		"images.max_width": validation.Validate(c.Images.MaxWidth, validation.Min(0)),
		"images.quality":   validation.Validate(c.Images.Quality, validation.Min(1), validation.Max(100)),
		"github.sort_by": validation.Validate(c.GitHub.SortBy,
			validation.In(repos.SortUpdated, repos.SortCreated, repos.SortName)),
		"github.max_projects": validation.Validate(c.GitHub.MaxProjects, validation.Min(0)),
		"github.base_url":     validation.Validate(c.GitHub.BaseURL, is.RequestURL),
	}.Filter()
}

func distDiffersFrom(src string) validation.RuleFunc {
	return func(value any) error {
		dist, _ := value.(string)
		if pathsOverlap(dist, src) {
			return errors.New("must not equal, contain or sit inside paths.src")
		}
		return nil
	}
}

// pathsOverlap reports whether a and b are the same directory or one lies
// below the other.
func pathsOverlap(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return within(absA, absB) || within(absB, absA)
}

// CacheEnabled reports whether the GitHub project cache should be opened.
func (c Config) CacheEnabled() bool {
	return c.Paths.Cache != CacheDisabled
}
