package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loft-shop/domain/ports"
	"loft-shop/pkg/utils"
)

// LocalStorage implements StoragePort สำหรับเก็บไฟล์ใน local filesystem
type LocalStorage struct {
	basePath string // เส้นทางหลักที่เก็บไฟล์ (เช่น ./uploads)
	baseURL  string // URL สำหรับเข้าถึงไฟล์ (เช่น http://localhost:8080/files)
}

type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

// NewLocalStorage สร้าง LocalStorage instance
func NewLocalStorage(config LocalStorageConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: config.BasePath,
		baseURL:  strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

var _ ports.StoragePort = (*LocalStorage)(nil)

// BasePath directory ที่ serve เป็น static files
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

func (l *LocalStorage) fullPath(key string) (string, error) {
	clean, err := utils.ValidateAndSanitizePath(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.basePath, filepath.FromSlash(clean)), nil
}

// UploadFile เขียนไฟล์ลง local filesystem
func (l *LocalStorage) UploadFile(ctx context.Context, file io.Reader, key string, size int64, contentType string) (string, error) {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.GetFileURL(key), nil
}

// DeleteFile ลบไฟล์ ไม่มีไฟล์อยู่แล้วถือว่าสำเร็จ
func (l *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := l.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	l.cleanupEmptyDirs(filepath.Dir(fullPath))
	return nil
}

// GetFileURL สร้าง URL สำหรับเข้าถึงไฟล์
func (l *LocalStorage) GetFileURL(key string) string {
	key = strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	return l.baseURL + "/" + key
}

func (l *LocalStorage) GetProviderName() string {
	return "local"
}

// cleanupEmptyDirs ลบ directory ว่างๆ ขึ้นไปจนถึง basePath
func (l *LocalStorage) cleanupEmptyDirs(dir string) {
	absBase, _ := filepath.Abs(l.basePath)
	absDir, _ := filepath.Abs(dir)

	for absDir != absBase && strings.HasPrefix(absDir, absBase) {
		entries, err := os.ReadDir(absDir)
		if err != nil || len(entries) > 0 {
			break
		}
		os.Remove(absDir)
		absDir = filepath.Dir(absDir)
	}
}
