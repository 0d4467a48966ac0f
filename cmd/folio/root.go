package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/repos"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Build a static portfolio site from markdown posts and a project list",
	Long: `Folio renders markdown posts and a curated project list, optionally
enriched with your public GitHub repositories, into a static site.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional.
		_ = godotenv.Load()

		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.InfoLevel)
		if debug, _ := strconv.ParseBool(os.Getenv("DEBUG")); debug || verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", folio.DefaultConfigPath, "Path to the site configuration")
}

// site bundles what every command needs after loading the configuration.
type site struct {
	cfg    folio.Config
	store  *folio.Store
	source *repos.Source
}

func (s *site) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.WithError(err).Warn("could not close cache")
		}
	}
}

// loadSite reads the configuration and, when a GitHub user is configured,
// opens the project cache and GitHub source. memoTTL keeps fetched projects
// in memory between builds of the same process.
func loadSite(memoTTL time.Duration) (*site, error) {
	cfg, err := folio.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	s := &site{cfg: cfg}
	if cfg.GitHub.Username == "" {
		log.Debug("no github username configured, skipping github projects")
		return s, nil
	}

	if cfg.CacheEnabled() {
		store, err := folio.NewStore(cfg.Paths.Cache)
		if err != nil {
			log.WithError(err).Warn("could not open github cache, continuing without it")
		} else {
			s.store = store
		}
	}
	client, err := repos.NewClient(http.DefaultClient, cfg.GitHub.Token, cfg.GitHub.BaseURL)
	if err != nil {
		s.Close()
		return nil, err
	}
	if cfg.GitHub.Token == "" {
		log.Debug("no GITHUB_TOKEN set, github requests are limited to 60/hour")
	}
	var cache repos.Cache
	if s.store != nil {
		cache = s.store
	}
	s.source = repos.NewSource(client, cache, repos.Options{
		Username:    cfg.GitHub.Username,
		SortBy:      cfg.GitHub.SortBy,
		MaxProjects: cfg.GitHub.MaxProjects,
		CacheTTL:    cfg.GitHub.CacheTTL,
		MemoTTL:     memoTTL,
		Filters:     cfg.GitHub.Filters,
	}, log.StandardLogger())
	return s, nil
}

func (s *site) builder() (*folio.Builder, error) {
	opts := []folio.Option{folio.WithLogger(log.StandardLogger())}
	if s.source != nil {
		opts = append(opts, folio.WithProjectSource(s.source))
	}
	return folio.NewBuilder(s.cfg, opts...)
}
