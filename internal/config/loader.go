package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Interview InterviewConfig `yaml:"interview"`
}

// LoadInterviewFile reads an interview block from a YAML file on top of base.
// Keys absent from the file keep their base value.
func LoadInterviewFile(filename string, base InterviewConfig) (InterviewConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return base, fmt.Errorf("read config file %s: %w", filename, err)
	}

	fc := fileConfig{Interview: base}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse YAML %s: %w", filename, err)
	}

	if err := fc.Interview.Validate(); err != nil {
		return base, fmt.Errorf("validate %s: %w", filename, err)
	}
	return fc.Interview, nil
}
