package config

// BucketConfig declares one allow-listed sub-directory of a section.
type BucketConfig struct {
	Slug string `json:"slug"`
	Tag  string `json:"tag"`
}

// SectionConfig maps a URL prefix onto a directory under the depot root.
// A section with buckets is restricted to exactly those sub-directories.
type SectionConfig struct {
	Key     string         `json:"key"`
	Dir     string         `json:"dir"`
	Buckets []BucketConfig `json:"buckets,omitempty"`
}

// Config holds the application configuration. The section table is plain
// enumerated input here; the depot registry validates it at startup.
type Config struct {
	Host         string          `json:"host"`
	Port         int             `json:"port"`
	Root         string          `json:"root"`
	Sections     []SectionConfig `json:"sections"`
	HideDotFiles bool            `json:"hide_dot_files"`
	HidePatterns []string        `json:"hide_patterns"`
	LogLevel     string          `json:"log_level"`
	EnableAuth   bool            `json:"enable_auth"`
	Username     string          `json:"username"`
	Password     string          `json:"password"`
	PasswordHash string          `json:"password_hash"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Host: "0.0.0.0",
		Port: 8080,
		Root: ".",
		Sections: []SectionConfig{
			{
				Key: "/games",
				Dir: "games",
				Buckets: []BucketConfig{
					{Slug: "solo", Tag: "Solo"},
					{Slug: "multi", Tag: "Multi"},
				},
			},
			{Key: "/docs", Dir: "docs"},
		},
		HideDotFiles: true,
		HidePatterns: []string{},
		LogLevel:     "info",
	}
}
