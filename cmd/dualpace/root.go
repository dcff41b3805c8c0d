package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dualpace/internal/domain/config"
	"dualpace/internal/logging"
)

// app is shared by every subcommand once PersistentPreRunE has run.
type app struct {
	cfgFile string
	envFile string
	cfg     config.Config
	log     zerolog.Logger
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "dualpace",
		Short:         "Bilingual running blog: validate, rank and publish posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "site.yaml", "config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("posts", "", "posts directory (content.posts_dir)")
	pf.String("invalid-policy", "", "fail-fast or skip (content.invalid_policy)")
	pf.String("log-level", "", "log level (log.level)")
	pf.String("log-format", "", "console or json (log.format)")
	a.bind(pf, "content.posts_dir", "posts")
	a.bind(pf, "content.invalid_policy", "invalid-policy")
	a.bind(pf, "log.level", "log-level")
	a.bind(pf, "log.format", "log-format")

	root.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newCheckCmd(a),
		newRelatedCmd(a),
	)
	return root
}

func (a *app) bind(fs *pflag.FlagSet, key, flag string) {
	if err := a.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(err)
	}
}

// initialize loads the dotenv file, then site.yaml over the defaults, then
// lets flags and DUALPACE_* variables win.
func (a *app) initialize(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Read(a.cfgFile)
	if err != nil {
		return fmt.Errorf("config %s: %w", a.cfgFile, err)
	}

	a.v.SetEnvPrefix("DUALPACE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	applyOverrides(&cfg, a.v)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", a.cfgFile, err)
	}
	a.cfg = cfg

	a.log, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	return err
}

type override struct {
	key   string
	apply func(c *config.Config, v *viper.Viper)
}

var overrides = []override{
	{"site.title", func(c *config.Config, v *viper.Viper) { c.Site.Title = v.GetString("site.title") }},
	{"site.site_url", func(c *config.Config, v *viper.Viper) { c.Site.SiteURL = v.GetString("site.site_url") }},
	{"site.default_locale", func(c *config.Config, v *viper.Viper) { c.Site.DefaultLocale = v.GetString("site.default_locale") }},
	{"site.locales", func(c *config.Config, v *viper.Viper) { c.Site.Locales = v.GetStringSlice("site.locales") }},
	{"content.posts_dir", func(c *config.Config, v *viper.Viper) { c.Content.PostsDir = v.GetString("content.posts_dir") }},
	{"content.invalid_policy", func(c *config.Config, v *viper.Viper) { c.Content.InvalidPolicy = v.GetString("content.invalid_policy") }},
	{"content.excerpt_length", func(c *config.Config, v *viper.Viper) { c.Content.ExcerptLength = v.GetInt("content.excerpt_length") }},
	{"content.related_limit", func(c *config.Config, v *viper.Viper) { c.Content.RelatedLimit = v.GetInt("content.related_limit") }},
	{"build.public_dir", func(c *config.Config, v *viper.Viper) { c.Build.PublicDir = v.GetString("build.public_dir") }},
	{"build.index_path", func(c *config.Config, v *viper.Viper) { c.Build.IndexPath = v.GetString("build.index_path") }},
	{"build.theme_dir", func(c *config.Config, v *viper.Viper) { c.Build.ThemeDir = v.GetString("build.theme_dir") }},
	{"serve.addr", func(c *config.Config, v *viper.Viper) { c.Serve.Addr = v.GetString("serve.addr") }},
	{"serve.allowed_origins", func(c *config.Config, v *viper.Viper) {
		c.Serve.AllowedOrigins = v.GetStringSlice("serve.allowed_origins")
	}},
	{"log.level", func(c *config.Config, v *viper.Viper) { c.Log.Level = v.GetString("log.level") }},
	{"log.format", func(c *config.Config, v *viper.Viper) { c.Log.Format = v.GetString("log.format") }},
}

// applyOverrides copies every key viper has a value for (changed flag or
// environment variable) into cfg.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	for _, o := range overrides {
		if v.IsSet(o.key) {
			o.apply(cfg, v)
		}
	}
}
