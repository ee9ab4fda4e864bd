package ports

// AssetLoader resolves static content by asset key.
// A missing key yields domain.ErrAssetNotFound and is a configuration error.
type AssetLoader interface {
	LoadPrompt(key string) (string, error)
	LoadMessage(key string) (string, error)
	LoadImage(key string) ([]byte, error)
}
