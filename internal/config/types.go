package config

// Config is the top-level sitenav configuration, corresponding to
// sitenav.yml.
type Config struct {
	Listen             string                 `yaml:"listen" koanf:"listen"`
	DataDir            string                 `yaml:"data_dir" koanf:"data_dir"`
	LogLevel           string                 `yaml:"log_level" koanf:"log_level"`
	ContentBase        string                 `yaml:"content_base" koanf:"content_base"`
	SiteHost           string                 `yaml:"site_host" koanf:"site_host"`
	CORSOrigins        []string               `yaml:"cors_origins" koanf:"cors_origins"`
	DefaultEnvironment string                 `yaml:"default_environment" koanf:"default_environment"`
	Environments       map[string]Environment `yaml:"environments" koanf:"environments"`
	Importer           ImporterConfig         `yaml:"importer" koanf:"importer"`
}

// Environment holds the per-deployment service coordinates.
type Environment struct {
	SiteID          string `yaml:"site_id" koanf:"site_id"`
	SearchOrg       string `yaml:"search_org" koanf:"search_org"`
	SearchKey       string `yaml:"search_key" koanf:"search_key"`
	SearchHost      string `yaml:"search_host" koanf:"search_host"`
	SearchPipeline  string `yaml:"search_pipeline" koanf:"search_pipeline"`
	SearchHub       string `yaml:"search_hub" koanf:"search_hub"`
	SearchPage      string `yaml:"search_page" koanf:"search_page"`
	IntershopDomain string `yaml:"intershop_domain" koanf:"intershop_domain"`
	IntershopPath   string `yaml:"intershop_path" koanf:"intershop_path"`
	QuoteCartPath   string `yaml:"quote_cart_path" koanf:"quote_cart_path"`
	Prod            bool   `yaml:"prod" koanf:"prod"`
}

// ImporterConfig configures content conversion.
type ImporterConfig struct {
	AuthorHost string   `yaml:"author_host" koanf:"author_host"`
	WCMMode    string   `yaml:"wcmmode" koanf:"wcmmode"`
	OutputDir  string   `yaml:"output_dir" koanf:"output_dir"`
	Include    []string `yaml:"include" koanf:"include"`
	Exclude    []string `yaml:"exclude" koanf:"exclude"`
}
