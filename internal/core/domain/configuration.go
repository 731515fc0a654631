package domain

import "context"

// Configuration is a stored configuration row. The Configuration field always
// holds the encrypted Salted__ container in base64, never the plaintext.
type Configuration struct {
	ID            string `db:"id" json:"id"`
	Configuration string `db:"configuration" json:"configuration"`
}

// ConfigurationRepository is the persistence contract for configurations.
type ConfigurationRepository interface {
	GetByID(ctx context.Context, id string) (*Configuration, error)
	List(ctx context.Context) ([]Configuration, error)
	Save(ctx context.Context, cfg *Configuration) error
	Update(ctx context.Context, cfg *Configuration) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// ConfigurationService is what the HTTP layer consumes. Reads return decrypted,
// normalized JSON; the "Encrypted" variants return the stored containers untouched.
type ConfigurationService interface {
	Store(ctx context.Context, id, configuration string) (string, error)
	Fetch(ctx context.Context, id string) (string, error)
	FetchAll(ctx context.Context) ([]Configuration, error)
	FetchEncrypted(ctx context.Context, id string) (*Configuration, error)
	FetchAllEncrypted(ctx context.Context) ([]Configuration, error)
	Update(ctx context.Context, id, normalizedJSON string) error
	Delete(ctx context.Context, id string) error
}
