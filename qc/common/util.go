package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYaml loads Yaml file into out
func LoadYaml(filename string, out interface{}) error {
	yamlData, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("yaml read %s: %w", filename, err)
	}
	if err = yaml.Unmarshal(yamlData, out); err != nil {
		return fmt.Errorf("yaml unmarshal %s: %w", filename, err)
	}
	return nil
}

// YamlObjectAsString outputs contents of yaml object with a label
func YamlObjectAsString(in interface{}, label string) string {
	d, err := yaml.Marshal(in)
	if err != nil {
		NewLog().Fatal("error: yaml.Marshal %v", err)
	}
	return fmt.Sprintf("=== %s ===\n%s\n\n", label, string(d))
}
