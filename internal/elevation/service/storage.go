package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wall-elevation/internal/elevation/models"
	"wall-elevation/internal/elevation/render"
)

// ============================================================
// Export Storage
// ============================================================

type ExportStorage struct {
	root string
}

func NewExportStorage(root string) *ExportStorage {
	return &ExportStorage{root: root}
}

func (s *ExportStorage) WallDir(wallID string) string {
	return filepath.Join(s.root, safeName(wallID))
}

// PNGPath: "<root>/<wallID>/<wall.Name>-elevation.png".
func (s *ExportStorage) PNGPath(wall models.Wall) string {
	return filepath.Join(s.WallDir(wall.ID), safeName(render.ExportFilename(wall)))
}

func (s *ExportStorage) EnsureDir(wallID string) error {
	path := s.WallDir(wallID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir wall dir: %w", err)
	}
	return nil
}

// SavePNG пишет экспорт стены и возвращает путь к файлу.
func (s *ExportStorage) SavePNG(wall models.Wall, data []byte) (string, error) {
	if err := s.EnsureDir(wall.ID); err != nil {
		return "", err
	}
	target := s.PNGPath(wall)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return target, nil
}

// имя стены приходит от пользователя
func safeName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(name)
	if name == "" {
		return "_"
	}
	return name
}
