package utils

import (
	"os"
	"strings"
)

const (
	StorageProviderGCS = "gcs"
	// StorageProviderNone disables blob storage; file uploads are rejected
	// but text ingestion keeps working (local development).
	StorageProviderNone = "none"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderGCS
	}
	return provider
}
