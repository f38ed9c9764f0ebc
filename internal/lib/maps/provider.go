package maps

// ProviderType tags a map tile/style provider.
type ProviderType string

const (
	ProviderOpenStreetMap ProviderType = "openstreetmap"
	ProviderMapbox        ProviderType = "mapbox"
	ProviderGoogle        ProviderType = "google"
)

const (
	osmTileTemplate = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	osmAttribution  = "© OpenStreetMap contributors"
)

// Credentials carries the provider API keys available to a rendering
// session, typically sourced from configuration or the environment.
type Credentials struct {
	GoogleAPIKey      string `yaml:"google_api_key"`
	MapboxAccessToken string `yaml:"mapbox_access_token"`
}

// ProviderConfig describes the selected provider. Fields are valid only for
// the tagged type: APIKey and StyleRef for credentialed vector providers,
// TileURLTemplate for raster providers. Treat a selected config as
// immutable; re-selection produces a new value.
type ProviderConfig struct {
	Type            ProviderType `json:"type"`
	APIKey          string       `json:"api_key,omitempty"`
	StyleRef        string       `json:"style_ref,omitempty"`
	TileURLTemplate string       `json:"tile_url_template,omitempty"`
	Attribution     string       `json:"attribution"`
}

// SelectProvider chooses a provider by tiered precedence: google when its
// credential is present, else mapbox, else the free openstreetmap provider.
// It is a pure function of the credential set and always returns a usable
// config; openstreetmap needs no credential and is the guaranteed bottom
// rung.
func SelectProvider(creds Credentials) ProviderConfig {
	if creds.GoogleAPIKey != "" {
		return ProviderConfig{
			Type:        ProviderGoogle,
			APIKey:      creds.GoogleAPIKey,
			StyleRef:    "roadmap",
			Attribution: "Map data © Google",
		}
	}

	if creds.MapboxAccessToken != "" {
		return ProviderConfig{
			Type:        ProviderMapbox,
			APIKey:      creds.MapboxAccessToken,
			StyleRef:    "mapbox://styles/mapbox/streets-v12",
			Attribution: "© Mapbox © OpenStreetMap",
		}
	}

	return ProviderConfig{
		Type:            ProviderOpenStreetMap,
		TileURLTemplate: osmTileTemplate,
		Attribution:     osmAttribution,
	}
}

// RasterTileTemplate returns a raster tile URL template for the given
// provider. Google and Mapbox styles require a client-side vector map
// engine, so callers that need raster tiles fall back to the openstreetmap
// template even when a higher tier was selected.
func RasterTileTemplate(config ProviderConfig) string {
	if config.Type == ProviderOpenStreetMap && config.TileURLTemplate != "" {
		return config.TileURLTemplate
	}
	return osmTileTemplate
}
