// Package config loads splice.yml, the project description splice reads
// before scaffolding or applying models.
//
// Values come from, in increasing priority: built-in defaults, splice.yml,
// a .env file next to it, and SPLICE_* environment variables
// (SPLICE_PROJECT_SOURCE overrides project.source).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/stoewer/go-strcase"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "splice.yml"

// Config is the whole of splice.yml.
type Config struct {
	Project  Project  `mapstructure:"project" yaml:"project"`
	Language Language `mapstructure:"language" yaml:"language"`
	Plugins  Plugins  `mapstructure:"plugins" yaml:"plugins"`
	Output   Output   `mapstructure:"output" yaml:"output"`
}

// Project describes the application being generated.
type Project struct {
	Name                string   `mapstructure:"name" yaml:"name"`
	Description         string   `mapstructure:"description" yaml:"description,omitempty"`
	Author              string   `mapstructure:"author" yaml:"author,omitempty"`
	License             string   `mapstructure:"license" yaml:"license,omitempty"`
	Source              string   `mapstructure:"source" yaml:"source" validate:"required"`
	DependencyInjection string   `mapstructure:"dependency_injection" yaml:"dependency_injection" validate:"omitempty,oneof=inversify singleton none"`
	WebFramework        string   `mapstructure:"web_framework" yaml:"web_framework,omitempty"`
	Database            []string `mapstructure:"database" yaml:"database,omitempty"`
	Service             string   `mapstructure:"service" yaml:"service,omitempty"`
}

// DI returns the dependency injection style, defaulting to none.
func (p Project) DI() string {
	if p.DependencyInjection == "" {
		return "none"
	}
	return p.DependencyInjection
}

// Language lists what every TypeScript project installs.
type Language struct {
	Packages            []string   `mapstructure:"packages" yaml:"packages"`
	Plugin              string     `mapstructure:"plugin" yaml:"plugin,omitempty"`
	DependencyInjection []DIConfig `mapstructure:"dependency_injection" yaml:"dependency_injection"`
}

// DIPackages returns the packages of the DI style named alias.
func (l Language) DIPackages(alias string) ([]string, bool) {
	for _, d := range l.DependencyInjection {
		if d.Alias == alias {
			return d.Packages, true
		}
	}
	return nil, false
}

// DIConfig maps a DI style to its packages.
type DIConfig struct {
	Alias    string   `mapstructure:"alias" yaml:"alias"`
	Packages []string `mapstructure:"packages" yaml:"packages"`
}

// Plugin is what one database, framework or service needs installed.
// Packages prefixed with "dev:" are development dependencies.
type Plugin struct {
	Packages []string `mapstructure:"packages" yaml:"packages"`
	Plugin   string   `mapstructure:"plugin" yaml:"plugin,omitempty"`
}

// Plugins are keyed by lower-case name.
type Plugins struct {
	Databases     map[string]Plugin `mapstructure:"databases" yaml:"databases"`
	WebFrameworks map[string]Plugin `mapstructure:"web_frameworks" yaml:"web_frameworks"`
	Services      map[string]Plugin `mapstructure:"services" yaml:"services"`
}

// Output controls how apply writes files.
type Output struct {
	Formatter string `mapstructure:"formatter" yaml:"formatter" validate:"oneof=plain prettier"`
	Index     bool   `mapstructure:"index" yaml:"index"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("project.name", "app")
	v.SetDefault("project.description", "")
	v.SetDefault("project.author", "")
	v.SetDefault("project.license", "ISC")
	v.SetDefault("project.source", "src")
	v.SetDefault("project.dependency_injection", "none")
	v.SetDefault("project.web_framework", "express")
	v.SetDefault("project.database", []string{})
	v.SetDefault("project.service", "")

	v.SetDefault("language.packages", []string{"dev:ts-node", "dev:jest", "dev:ts-jest", "dev:@types/jest"})
	v.SetDefault("language.plugin", "")
	v.SetDefault("language.dependency_injection", []map[string]any{
		{"alias": "inversify", "packages": []string{"inversify", "reflect-metadata"}},
		{"alias": "singleton", "packages": []string{}},
		{"alias": "none", "packages": []string{}},
	})

	v.SetDefault("plugins.databases", map[string]any{
		"mongo":    map[string]any{"packages": []string{"mongodb"}},
		"postgres": map[string]any{"packages": []string{"pg", "dev:@types/pg"}},
		"redis":    map[string]any{"packages": []string{"redis"}},
	})
	v.SetDefault("plugins.web_frameworks", map[string]any{
		"express": map[string]any{"packages": []string{"express", "dev:@types/express"}},
	})
	v.SetDefault("plugins.services", map[string]any{})

	v.SetDefault("output.formatter", "plain")
	v.SetDefault("output.index", true)
}

// Default returns the configuration used when there is no splice.yml.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads the configuration of the project in root. file overrides the
// default root/splice.yml and must then exist; a missing default file just
// leaves the defaults in place.
func Load(root, file string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SPLICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated and required values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid %s: %s", FileName, strings.Join(msgs, "; "))
}

// fieldPath turns Config.Project.DependencyInjection into
// project.dependency_injection.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")[1:]
	for i, p := range parts {
		parts[i] = strcase.SnakeCase(p)
	}
	return strings.Join(parts, ".")
}

// Detect reports whether root holds a splice.yml.
func Detect(root string) bool {
	_, err := os.Stat(filepath.Join(root, FileName))
	return err == nil
}

// Marshal renders c as splice.yml content.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
