// Configs are loaded from a yaml file placed on the server. The loaded
// configuration is validated once at startup and then served through a
// package level singleton.
package config

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var appConfig *Application

type (
	DatabaseType string

	Application struct {
		Service  ServiceConfig  `yaml:"service"`
		Server   ServerConfig   `yaml:"server"`
		Database DatabaseConfig `yaml:"database"`
		Security SecurityConfig `yaml:"security"`
		Logging  LoggingConfig  `yaml:"logging"`
		SapSync  SapSyncConfig  `yaml:"sap_sync"`
	}

	ServiceConfig struct {
		Name string `yaml:"name"`
		// base url of the ERP supplier endpoint, e.g. https://sap.example.com
		// leave empty to run with the built-in mock (development only)
		SapService string `yaml:"sap_service"`
		// printed at the bottom of every generated RFP summary
		PrintFooter string `yaml:"print_footer"`
	}

	ServerConfig struct {
		BaseAddress  string `yaml:"address"`
		Port         int    `yaml:"port"`
		ReadTimeout  int    `yaml:"read_timeout_seconds"`
		WriteTimeout int    `yaml:"write_timeout_seconds"`
		IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	}

	DatabaseConfig struct {
		Use        DatabaseType `yaml:"use"`
		Username   string       `yaml:"username"`
		Password   string       `yaml:"password"`
		Database   string       `yaml:"database"`
		Parameters []string     `yaml:"parameters"`
	}

	SecurityConfig struct {
		Fixed FixedTokenConfig `yaml:"fixed_token"`
		Oidc  OidcConfig       `yaml:"oidc"`
		Cors  CorsConfig       `yaml:"cors"`
	}

	FixedTokenConfig struct {
		Api string `yaml:"api"`
	}

	OidcConfig struct {
		TokenCookieName    string   `yaml:"token_cookie_name"`
		TokenPublicKeysPEM []string `yaml:"token_public_keys_PEM"`
		AdminRole          string   `yaml:"admin_role"`
	}

	CorsConfig struct {
		DisableCors bool   `yaml:"disable"`
		AllowOrigin string `yaml:"allow_origin"`
	}

	LoggingConfig struct {
		Severity string `yaml:"severity"`
	}

	SapSyncConfig struct {
		FirstRunDelaySeconds int `yaml:"first_run_delay_seconds"`
		IntervalMinutes      int `yaml:"interval_minutes"`
	}
)

const (
	Mysql    DatabaseType = "mysql"
	Inmemory DatabaseType = "inmemory"
)

func UnmarshalFromYamlConfiguration(file io.Reader) (*Application, error) {
	d := yaml.NewDecoder(file)
	d.KnownFields(true)

	conf := newConfigWithDefaults()
	if err := d.Decode(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func newConfigWithDefaults() *Application {
	return &Application{
		Service: ServiceConfig{
			Name: "rfp-service",
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
		Database: DatabaseConfig{
			Use: Inmemory,
		},
		Logging: LoggingConfig{
			Severity: "INFO",
		},
		SapSync: SapSyncConfig{
			FirstRunDelaySeconds: 15,
			IntervalMinutes:      60,
		},
	}
}

// LoadConfiguration reads, validates and installs the application config.
func LoadConfiguration(configFilePath string, logFunc func(format string, v ...interface{})) error {
	if configFilePath == "" {
		return errors.New("no configuration file name provided")
	}

	f, err := os.Open(configFilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	conf, err := UnmarshalFromYamlConfiguration(f)
	if err != nil {
		return err
	}

	if err := Validate(conf, logFunc); err != nil {
		return err
	}

	appConfig = conf
	return nil
}

func GetApplicationConfig() (*Application, error) {
	if appConfig == nil {
		return nil, errors.New("configuration was not yet loaded")
	}

	return appConfig, nil
}
