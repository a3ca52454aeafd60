package config

// StoreConfig defines configuration for the SQLite change store.
type StoreConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" validate:"required"`
}

// NewDefaultStoreConfig creates default store configuration
func NewDefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DBPath: DefaultStoreDBPath,
	}
}
