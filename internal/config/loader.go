package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load loads configuration from multiple sources with precedence:
// 1. CLI flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest)
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFile()
	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)
	if err := loadFromFlags(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getConfigFile returns the configuration file path from flags or environment.
func getConfigFile() string {
	configFlag := flag.Lookup("config")
	if configFlag != nil && configFlag.Value.String() != "" {
		return configFlag.Value.String()
	}

	if envConfig := os.Getenv("FILEDEPOT_CONFIG"); envConfig != "" {
		return envConfig
	}

	if _, err := os.Stat("filedepot.json"); err == nil {
		return "filedepot.json"
	}

	return ""
}

// loadFromFile loads configuration from a JSON file.
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables. Sections can
// only be declared in full (with buckets) via the config file; the
// FILEDEPOT_SECTIONS shorthand declares unrestricted sections as
// comma-separated key=dir pairs.
func loadFromEnv(cfg *Config) {
	if host := os.Getenv("FILEDEPOT_HOST"); host != "" {
		cfg.Host = host
	}

	if port := os.Getenv("FILEDEPOT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}

	if root := os.Getenv("FILEDEPOT_ROOT"); root != "" {
		cfg.Root = root
	}

	if sections := os.Getenv("FILEDEPOT_SECTIONS"); sections != "" {
		if parsed, err := parseSectionPairs(sections); err == nil {
			cfg.Sections = parsed
		}
	}

	if dotFiles := os.Getenv("FILEDEPOT_HIDE_DOTFILES"); dotFiles != "" {
		if val, err := strconv.ParseBool(dotFiles); err == nil {
			cfg.HideDotFiles = val
		}
	}

	if patterns := os.Getenv("FILEDEPOT_HIDE_PATTERNS"); patterns != "" {
		cfg.HidePatterns = splitTrim(patterns)
	}

	if logLevel := os.Getenv("FILEDEPOT_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if enableAuth := os.Getenv("FILEDEPOT_ENABLE_AUTH"); enableAuth != "" {
		if val, err := strconv.ParseBool(enableAuth); err == nil {
			cfg.EnableAuth = val
		}
	}

	if username := os.Getenv("FILEDEPOT_USERNAME"); username != "" {
		cfg.Username = username
	}

	if password := os.Getenv("FILEDEPOT_PASSWORD"); password != "" {
		cfg.Password = password
	}

	if hash := os.Getenv("FILEDEPOT_PASSWORD_HASH"); hash != "" {
		cfg.PasswordHash = hash
	}
}

// loadFromFlags loads configuration from CLI flags.
func loadFromFlags(cfg *Config) error {
	if flag.Lookup("host") == nil {
		flag.String("host", cfg.Host, "Host to bind to")
	}
	if flag.Lookup("port") == nil {
		flag.Int("port", cfg.Port, "Port to serve on")
	}
	if flag.Lookup("root") == nil {
		flag.String("root", "", "Physical root directory of the depot")
	}
	if flag.Lookup("sections") == nil {
		flag.String("sections", "", "Comma-separated key=dir section pairs (unrestricted)")
	}
	if flag.Lookup("hide-dotfiles") == nil {
		flag.Bool("hide-dotfiles", cfg.HideDotFiles, "Hide dot files from listings")
	}
	if flag.Lookup("hide-patterns") == nil {
		flag.String("hide-patterns", "", "Comma-separated glob patterns hidden from listings")
	}
	if flag.Lookup("log-level") == nil {
		flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	}
	if flag.Lookup("enable-auth") == nil {
		flag.Bool("enable-auth", cfg.EnableAuth, "Enable session authentication")
	}
	if flag.Lookup("username") == nil {
		flag.String("username", cfg.Username, "Username for session login")
	}
	if flag.Lookup("password") == nil {
		flag.String("password", cfg.Password, "Password for session login")
	}
	if flag.Lookup("password-hash") == nil {
		flag.String("password-hash", cfg.PasswordHash, "Bcrypt hash accepted instead of a plain password")
	}
	if flag.Lookup("config") == nil {
		flag.String("config", "", "Path to configuration file")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if hostFlag := flag.Lookup("host"); hostFlag != nil && hostFlag.Value.String() != hostFlag.DefValue {
		cfg.Host = hostFlag.Value.String()
	}

	if portFlag := flag.Lookup("port"); portFlag != nil && portFlag.Value.String() != portFlag.DefValue {
		if p, err := strconv.Atoi(portFlag.Value.String()); err == nil {
			cfg.Port = p
		}
	}

	if rootFlag := flag.Lookup("root"); rootFlag != nil && rootFlag.Value.String() != "" {
		cfg.Root = rootFlag.Value.String()
	}

	if sectionsFlag := flag.Lookup("sections"); sectionsFlag != nil && sectionsFlag.Value.String() != "" {
		parsed, err := parseSectionPairs(sectionsFlag.Value.String())
		if err != nil {
			return err
		}
		cfg.Sections = parsed
	}

	if dotFilesFlag := flag.Lookup("hide-dotfiles"); dotFilesFlag != nil && dotFilesFlag.Value.String() != dotFilesFlag.DefValue {
		if val, err := strconv.ParseBool(dotFilesFlag.Value.String()); err == nil {
			cfg.HideDotFiles = val
		}
	}

	if patternsFlag := flag.Lookup("hide-patterns"); patternsFlag != nil && patternsFlag.Value.String() != "" {
		cfg.HidePatterns = mergePatterns(cfg.HidePatterns, splitTrim(patternsFlag.Value.String()))
	}

	if logLevelFlag := flag.Lookup("log-level"); logLevelFlag != nil && logLevelFlag.Value.String() != logLevelFlag.DefValue {
		cfg.LogLevel = logLevelFlag.Value.String()
	}

	if enableAuthFlag := flag.Lookup("enable-auth"); enableAuthFlag != nil && enableAuthFlag.Value.String() != enableAuthFlag.DefValue {
		if val, err := strconv.ParseBool(enableAuthFlag.Value.String()); err == nil {
			cfg.EnableAuth = val
		}
	}

	if usernameFlag := flag.Lookup("username"); usernameFlag != nil && usernameFlag.Value.String() != usernameFlag.DefValue {
		cfg.Username = usernameFlag.Value.String()
	}

	if passwordFlag := flag.Lookup("password"); passwordFlag != nil && passwordFlag.Value.String() != passwordFlag.DefValue {
		cfg.Password = passwordFlag.Value.String()
	}

	if hashFlag := flag.Lookup("password-hash"); hashFlag != nil && hashFlag.Value.String() != hashFlag.DefValue {
		cfg.PasswordHash = hashFlag.Value.String()
	}

	return nil
}

// parseSectionPairs parses "key=dir" pairs, e.g. "/games=games,/docs=docs".
func parseSectionPairs(s string) ([]SectionConfig, error) {
	var sections []SectionConfig
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, dir, found := strings.Cut(pair, "=")
		if !found || key == "" || dir == "" {
			return nil, fmt.Errorf("invalid section pair %q, want key=dir", pair)
		}
		sections = append(sections, SectionConfig{
			Key: strings.TrimSpace(key),
			Dir: strings.TrimSpace(dir),
		})
	}
	return sections, nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// mergePatterns appends new patterns, skipping duplicates.
func mergePatterns(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p] = struct{}{}
	}
	for _, p := range extra {
		if _, dup := seen[p]; !dup {
			existing = append(existing, p)
			seen[p] = struct{}{}
		}
	}
	return existing
}
