package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-export/pkg/simpleexport"
	"github.com/tendant/simple-export/pkg/simpleexport/repo/memory"
	repopg "github.com/tendant/simple-export/pkg/simpleexport/repo/postgres"
	fsstorage "github.com/tendant/simple-export/pkg/simpleexport/storage/fs"
	memorystorage "github.com/tendant/simple-export/pkg/simpleexport/storage/memory"
	s3storage "github.com/tendant/simple-export/pkg/simpleexport/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		ArchiveType:        "memory",
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the simple-export service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Archive configuration
	ArchiveType string // "memory", "fs", "s3"

	// Filesystem archive options
	FSBaseDir   string
	FSURLPrefix string

	// S3 archive options
	S3 S3Config

	// Server options
	EnableEventLogging bool
}

// S3Config holds S3/MinIO archive options
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UseSSL          bool
	UsePathStyle    bool
	PresignDuration int
	CreateBucket    bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.ArchiveType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs_base_dir is required when using fs archive")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 archive")
		}
	default:
		return errors.New("archive_type must be 'memory', 'fs' or 's3'")
	}

	return nil
}

// BuildRepository constructs the configured repository
func (c *ServerConfig) BuildRepository(ctx context.Context) (simpleexport.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildArchive constructs the configured content archive
func (c *ServerConfig) BuildArchive() (simpleexport.Archive, error) {
	switch c.ArchiveType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UseSSL:                 c.S3.UseSSL,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignDuration,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", c.ArchiveType)
	}
}

// BuildService wires repository, archive and event sink into a Service
func (c *ServerConfig) BuildService(ctx context.Context) (simpleexport.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, err
	}

	archive, err := c.BuildArchive()
	if err != nil {
		return nil, err
	}

	opts := []simpleexport.Option{
		simpleexport.WithRepository(repo),
		simpleexport.WithArchive(archive),
	}
	if c.EnableEventLogging {
		opts = append(opts, simpleexport.WithEventSink(simpleexport.NewLogEventSink(nil)))
	}

	return simpleexport.New(opts...)
}
