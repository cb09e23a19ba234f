package utils

import (
	"errors"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrInvalidPath      = errors.New("invalid path format")
	ErrUnsafePath       = errors.New("unsafe path detected")
	ErrPathTooLong      = errors.New("path is too long")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrInvalidCharacter = errors.New("path contains invalid characters")
)

const MaxPathLength = 500

var (
	dangerousChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f\x7f]`)
	multiSlash     = regexp.MustCompile(`/+`)
)

// ValidateAndSanitizePath ตรวจ storage key ไม่ให้หลุดออกนอก base directory
func ValidateAndSanitizePath(customPath string) (string, error) {
	customPath = strings.TrimSpace(customPath)
	if customPath == "" {
		return "", ErrEmptyPath
	}
	if len(customPath) > MaxPathLength {
		return "", ErrPathTooLong
	}
	if strings.Contains(customPath, "..") {
		return "", ErrUnsafePath
	}
	if filepath.IsAbs(customPath) || strings.HasPrefix(customPath, "/") {
		return "", ErrUnsafePath
	}
	if dangerousChars.MatchString(customPath) {
		return "", ErrInvalidCharacter
	}

	customPath = strings.ReplaceAll(customPath, "\\", "/")
	customPath = multiSlash.ReplaceAllString(customPath, "/")
	customPath = strings.Trim(customPath, "/")

	if customPath == "" {
		return "", ErrEmptyPath
	}
	return customPath, nil
}

// SanitizeFileName sanitizes a filename to ensure it's safe for storage
func SanitizeFileName(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = dangerousChars.ReplaceAllString(filename, "_")
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = strings.TrimSpace(filename)

	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		filename = "file"
	}
	return filename
}

// ProductImageKey สร้าง key สำหรับรูปสินค้า: products/<slug>/<random>-<name>
func ProductImageKey(productSlug, filename string) string {
	name := strings.ToLower(SanitizeFileName(filename))
	return path.Join("products", productSlug, GenerateRandomString(8)+"-"+name)
}
