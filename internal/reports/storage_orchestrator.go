package reports

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"roomclimate/internal/logger"
	"roomclimate/internal/storage"
)

// StorageOrchestrator writes snapshot files through a storage client
type StorageOrchestrator struct {
	storage storage.StorageClient
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage: client,
		log:     logger.WithComponent("storage"),
	}
}

// StoreAllFiles uploads every generated file under its folder path and
// returns the stored object paths
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) ([]string, error) {
	if err := so.storage.CreateDir(ctx, path.Join(files.FolderPath, chartsDir)); err != nil {
		return nil, fmt.Errorf("failed to create snapshot folder: %w", err)
	}

	stored := make([]string, 0, len(files.Files))
	for _, name := range files.Names() {
		full := path.Join(files.FolderPath, name)
		if err := so.storage.StoreFile(ctx, full, files.Files[name]); err != nil {
			return stored, fmt.Errorf("failed to store %s: %w", name, err)
		}
		stored = append(stored, full)
	}

	so.log.Info("Snapshot stored", map[string]interface{}{
		"snapshot": files.SnapshotID,
		"folder":   files.FolderPath,
		"files":    len(stored),
	})
	return stored, nil
}

// ListSnapshots returns the folder of every stored snapshot, newest first
func (so *StorageOrchestrator) ListSnapshots(ctx context.Context) ([]string, error) {
	entries, err := so.storage.ListDir(ctx, "", true)
	if err != nil {
		return nil, err
	}
	var folders []string
	for _, e := range entries {
		if path.Base(e) == indexFile {
			folders = append(folders, strings.TrimSuffix(path.Dir(e), "/"))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	return folders, nil
}

// GetFile returns a stored snapshot file
func (so *StorageOrchestrator) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	return so.storage.GetFile(ctx, filePath)
}
