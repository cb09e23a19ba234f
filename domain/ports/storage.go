package ports

import (
	"context"
	"io"
)

// StoragePort คือ interface สำหรับเก็บรูปสินค้า
// ทำให้เปลี่ยน storage provider ได้ง่าย (Local, MinIO, R2)
type StoragePort interface {
	// UploadFile อัปโหลดไฟล์ไปยัง key ที่กำหนด (เช่น "products/<slug>/<name>.jpg")
	// return: URL ที่เข้าถึงไฟล์ได้
	UploadFile(ctx context.Context, file io.Reader, key string, size int64, contentType string) (string, error)

	// DeleteFile ลบไฟล์ ไม่มีไฟล์อยู่แล้วถือว่าสำเร็จ
	DeleteFile(ctx context.Context, key string) error

	// GetFileURL รับ URL สำหรับเข้าถึงไฟล์
	GetFileURL(key string) string

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
