package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidArchitectures lists the architecture tags accepted by Validate.
var ValidArchitectures = []string{
	"arm64", "x86_64", "all", "amd64", "i386",
	"arm", "armhf", "ppc64el", "s390x",
}

type Config struct {
	Package      string   `yaml:"package"`
	Mirrors      []string `yaml:"mirrors"`
	Architecture string   `yaml:"architecture"`
	RootDir      string   `yaml:"root_dir"`
	Dist         string   `yaml:"dist"`
	Components   []string `yaml:"components"`
	S3Endpoint   string   `yaml:"s3_endpoint"`
	S3Bucket     string   `yaml:"s3_bucket"`
	S3AccessKey  string   `yaml:"s3_access_key"`
	S3SecretKey  string   `yaml:"s3_secret_key"`
}

func New() *Config {
	return &Config{
		Architecture: "arm64",
		Dist:         "focal",
		Components:   []string{"main", "universe"},
	}
}

func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}

	return nil
}

// UseS3 reports whether downloaded artifacts go to a bucket instead of disk.
func (c *Config) UseS3() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

func (c *Config) Validate() error {
	if c.Package == "" {
		return fmt.Errorf("package name is required")
	}

	if len(c.Mirrors) == 0 {
		return fmt.Errorf("at least one mirror URL is required")
	}

	if !slices.Contains(ValidArchitectures, c.Architecture) {
		return fmt.Errorf("architecture must be one of: %v", ValidArchitectures)
	}

	if c.RootDir == "" {
		return fmt.Errorf("root directory is required")
	}

	if c.UseS3() {
		return nil
	}

	if err := os.MkdirAll(c.RootDir, 0o755); err != nil {
		return err
	}

	// Probe writability up front rather than failing after the download.
	probe := filepath.Join(c.RootDir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
