package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard asks for the essential settings, starting from the defaults,
// and saves the result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sitenav! Let's configure the header service.")
	fmt.Println()

	cfg := DefaultConfig()

	envPrompt := promptui.Select{
		Label: "Default environment",
		Items: []string{EnvNonProduction, EnvProduction},
	}
	_, envName, err := envPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("environment selection: %w", err)
	}
	cfg.DefaultEnvironment = envName

	listen, err := ask("Listen address", cfg.Listen)
	if err != nil {
		return nil, err
	}
	cfg.Listen = listen

	contentBase, err := ask("Content host serving the navigation fragment", cfg.ContentBase)
	if err != nil {
		return nil, err
	}
	cfg.ContentBase = contentBase

	authorHost, err := ask("Authoring host for content import (blank to skip)", "")
	if err != nil {
		return nil, err
	}
	cfg.Importer.AuthorHost = authorHost

	outDir, err := ask("Output directory for imported markdown", cfg.Importer.OutputDir)
	if err != nil {
		return nil, err
	}
	cfg.Importer.OutputDir = outDir

	exclude, err := ask("Extra page exclude patterns (comma-separated, blank for defaults)", "")
	if err != nil {
		return nil, err
	}
	cfg.Importer.Exclude = append(cfg.Importer.Exclude, splitAndTrim(exclude)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func ask(label, def string) (string, error) {
	p := promptui.Prompt{Label: label, Default: def}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(v), nil
}

// splitAndTrim splits a comma-separated list, dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
