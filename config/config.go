// Package config loads alignshop's process configuration through viper,
// grounded on _examples/inodb-vibe-vep/cmd/vibe-vep/config.go's
// get/set/show shape and flag-over-env-over-file-over-default precedence,
// adapted from that teacher's ad-hoc viper.Get/viper.Set calls scattered
// across commands into one typed Config struct bound once at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds every setting alignshop's predict pipeline needs beyond
// what the invoking command's own flags supply per-call.
type Config struct {
	PsiBlastPath      string `mapstructure:"psiblast_path"`
	DefaultIterations int    `mapstructure:"default_iterations"`
	DefaultThreads    int    `mapstructure:"default_threads"`
	TempDir           string `mapstructure:"temp_dir"`
	NNStage1Path      string `mapstructure:"nn_stage1_path"`
	NNStage2Path      string `mapstructure:"nn_stage2_path"`
}

func defaults() Config {
	return Config{
		PsiBlastPath:      "psiblast",
		DefaultIterations: 3,
		DefaultThreads:    1,
		TempDir:           os.TempDir(),
	}
}

// BindFlags registers the configuration surface as persistent flags on
// cmd, so cobra's flag parsing participates in viper's flag > env > file >
// default precedence chain when Load runs after cmd.Execute begins.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	d := defaults()
	cmd.PersistentFlags().String("psiblast-path", d.PsiBlastPath, "Path to the psiblast executable")
	cmd.PersistentFlags().Int("iterations", d.DefaultIterations, "Default PSI-BLAST iteration count")
	cmd.PersistentFlags().Int("threads", d.DefaultThreads, "Default PSI-BLAST thread count")
	cmd.PersistentFlags().String("temp-dir", d.TempDir, "Directory for per-request FASTA/PSSM scratch files")
	cmd.PersistentFlags().String("nn-stage1", "", "Path to the stage-1 neural network weight file")
	cmd.PersistentFlags().String("nn-stage2", "", "Path to the stage-2 neural network weight file")

	_ = v.BindPFlag("psiblast_path", cmd.PersistentFlags().Lookup("psiblast-path"))
	_ = v.BindPFlag("default_iterations", cmd.PersistentFlags().Lookup("iterations"))
	_ = v.BindPFlag("default_threads", cmd.PersistentFlags().Lookup("threads"))
	_ = v.BindPFlag("temp_dir", cmd.PersistentFlags().Lookup("temp-dir"))
	_ = v.BindPFlag("nn_stage1_path", cmd.PersistentFlags().Lookup("nn-stage1"))
	_ = v.BindPFlag("nn_stage2_path", cmd.PersistentFlags().Lookup("nn-stage2"))
}

// New builds a viper instance reading ALIGNSHOP_-prefixed environment
// variables and an optional config file, in the file formats viper
// auto-detects (YAML, TOML, JSON, ...).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ALIGNSHOP")
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".alignshop")
	return v
}

// Load reads the config file (if one is found) into v, then decodes v's
// merged flag/env/file/default view into a Config.
func Load(v *viper.Viper) (*Config, error) {
	d := defaults()
	for key, val := range map[string]interface{}{
		"psiblast_path":      d.PsiBlastPath,
		"default_iterations": d.DefaultIterations,
		"default_threads":    d.DefaultThreads,
		"temp_dir":           d.TempDir,
	} {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding configuration: %w", err)
	}
	return &cfg, nil
}

// ConfigFilePath returns the config file Load read into v or, when none was
// read, ~/.alignshop.yaml (".alignshop.yaml" if the home directory is
// unknown), mirroring the teacher's runConfigSet fallback to
// ~/.vibe-vep.yaml. Nothing in this package writes to that path.
func ConfigFilePath(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".alignshop.yaml"
	}
	return filepath.Join(home, ".alignshop.yaml")
}
