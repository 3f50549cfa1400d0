package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/hh-screener/internal/ai/gemini"
	"github.com/spigell/hh-screener/internal/orchestrator"
)

const (
	app = "hh-screener"

	providerKeyword  = "keyword"
	providerTemplate = "template"
	providerGemini   = "gemini"

	driverMemory = "memory"
	driverSQLite = "sqlite"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	// ContentFile replaces the built-in job and company catalog.
	ContentFile       string            `mapstructure:"content-file"`
	JobID             string            `mapstructure:"job-id"`
	CompanyID         string            `mapstructure:"company-id"`
	QuestionThreshold int               `mapstructure:"question-threshold"`
	Store             *StoreConfig      `mapstructure:"store"`
	Classifier        *ClassifierConfig `mapstructure:"classifier"`
	Phrasing          *PhrasingConfig   `mapstructure:"phrasing"`
	AI                *AIConfig         `mapstructure:"ai"`
	Server            *ServerConfig     `mapstructure:"server"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type ClassifierConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Keywords overrides the keyword lists per intent label.
	Keywords map[string][]string `mapstructure:"keywords"`
}

type PhrasingConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-screener runs first round screening conversations with candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("content-file", "", "yaml or json file with jobs and companies (default is the built-in catalog)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("content-file", rootCmd.PersistentFlags().Lookup("content-file"))

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("HH_SCREENER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("content-file", "")
	v.SetDefault("job-id", "senior_python_dev")
	v.SetDefault("company-id", "tech_innovators")
	v.SetDefault("question-threshold", orchestrator.DefaultQuestionThreshold)

	v.SetDefault("store.driver", driverMemory)
	v.SetDefault("store.path", app+".db")

	v.SetDefault("classifier.provider", providerKeyword)
	v.SetDefault("classifier.timeout", 5*time.Second)

	v.SetDefault("phrasing.provider", providerTemplate)
	v.SetDefault("phrasing.timeout", 10*time.Second)

	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-retries", gemini.DefaultMaxRetries)
	v.SetDefault("ai.gemini.max-log-length", 200)

	v.SetDefault("server.addr", ":8000")
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless it was given explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	return config, config.validate()
}

func (c *Config) validate() error {
	if c.Store == nil || c.Classifier == nil || c.Phrasing == nil || c.Server == nil {
		return errors.New("store, classifier, phrasing and server sections are required")
	}

	switch c.Store.Driver {
	case driverMemory:
	case driverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if p := c.Classifier.Provider; p != providerKeyword && p != providerGemini {
		return fmt.Errorf("unknown classifier provider %q", p)
	}
	if p := c.Phrasing.Provider; p != providerTemplate && p != providerGemini {
		return fmt.Errorf("unknown phrasing provider %q", p)
	}
	if c.usesGemini() && (c.AI == nil || c.AI.Gemini == nil) {
		return errors.New("ai.gemini section is required when gemini is a provider")
	}

	return nil
}

func (c *Config) usesGemini() bool {
	return c.Classifier.Provider == providerGemini || c.Phrasing.Provider == providerGemini
}
