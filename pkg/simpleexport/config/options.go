package config

// Programmatic options, for callers that configure the server in code rather
// than through the environment.

// WithPort sets the HTTP port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment name
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithPostgres configures the postgres repository
func WithPostgres(databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = "postgres"
		c.DatabaseURL = databaseURL
		return nil
	}
}

// WithMemoryDatabase configures the in-memory repository
func WithMemoryDatabase() Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}
}

// WithFSArchive configures a filesystem archive
func WithFSArchive(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		c.ArchiveType = "fs"
		c.FSBaseDir = baseDir
		c.FSURLPrefix = urlPrefix
		return nil
	}
}

// WithS3Archive configures an S3/MinIO archive
func WithS3Archive(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		c.ArchiveType = "s3"
		c.S3 = s3
		return nil
	}
}

// WithEventLogging toggles lifecycle event logging
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
