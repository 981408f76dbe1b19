package config

const (
	// DefaultPath is the configuration file read when --config is unset.
	DefaultPath = "sitenav.yml"

	// ProdHost is the public production hostname.
	ProdHost = "lifesciences.danaher.com"

	EnvProduction    = "production"
	EnvNonProduction = "nonproduction"
)

// DefaultExcludes are page globs never imported.
var DefaultExcludes = []string{
	"**/fragments/**",
	"**/drafts/**",
	"**/*-test.html",
}

func defaultEnvironments() map[string]Environment {
	return map[string]Environment{
		EnvProduction: {
			SiteID:          "ls-us-en",
			SearchOrg:       "danaherproductionrfl96bkr",
			SearchKey:       "xxf2f10385-5a54-4a18-bb48-fd8025d6b5d2",
			SearchPage:      "/us/en/search.html",
			IntershopDomain: "https://shop.lifesciences.danaher.com",
			IntershopPath:   "/INTERSHOP/rest/WFS/DANAHERLS-LSIG-Site/-",
			QuoteCartPath:   "/us/en/quote-cart.html",
			Prod:            true,
		},
		EnvNonProduction: {
			SiteID:          "ls-us-en",
			SearchOrg:       "danahernonproduction1892f3fhz",
			SearchKey:       "xx2a2e7271-78c3-4e3b-bac3-2fcbab75323b",
			SearchPage:      "/us/en/search.html",
			IntershopDomain: "https://stage.shop.lifesciences.danaher.com",
			IntershopPath:   "/INTERSHOP/rest/WFS/DANAHERLS-LSIG-Site/-",
			QuoteCartPath:   "/us/en/quote-cart.html",
		},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:             ":8080",
		DataDir:            ".sitenav",
		LogLevel:           "info",
		ContentBase:        "https://lifesciences.danaher.com",
		SiteHost:           ProdHost,
		CORSOrigins:        []string{"*"},
		DefaultEnvironment: EnvNonProduction,
		Environments:       defaultEnvironments(),
		Importer: ImporterConfig{
			WCMMode:   "disabled",
			OutputDir: "content",
			Include:   []string{"**"},
			Exclude:   DefaultExcludes,
		},
	}
}
