package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all configuration for the aggregation job.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Output  OutputConfig  `mapstructure:"output"`
	Job     JobConfig     `mapstructure:"job"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DatasetConfig locates the MovieLens tables.
type DatasetConfig struct {
	Dir         string `mapstructure:"dir"`
	RatingsGlob string `mapstructure:"ratings_glob"`
	MoviesFile  string `mapstructure:"movies_file"`
	LinksFile   string `mapstructure:"links_file"`
}

// OutputConfig locates the two output artifacts.
type OutputConfig struct {
	JSONPath   string `mapstructure:"json_path"`
	CSVDir     string `mapstructure:"csv_dir"`
	Partitions int    `mapstructure:"partitions"`
}

// JobConfig controls process-local parallelism.
type JobConfig struct {
	Workers   int `mapstructure:"workers"`
	ChunkSize int `mapstructure:"chunk_size"`
}

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads the job configuration from the given path.
// If configPath is empty, it looks for moviehist.yaml in the config/ directory.
// Environment variables with MOVIEHIST_ prefix override config file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("dataset.dir", "./ml-25m")
	v.SetDefault("dataset.ratings_glob", "ratings*.csv")
	v.SetDefault("dataset.movies_file", "movies.csv")
	v.SetDefault("dataset.links_file", "links.csv")
	v.SetDefault("output.json_path", "./results.json")
	v.SetDefault("output.csv_dir", "./results")
	v.SetDefault("output.partitions", 4)
	v.SetDefault("job.workers", 8)
	v.SetDefault("job.chunk_size", 65536)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("moviehist")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MOVIEHIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
