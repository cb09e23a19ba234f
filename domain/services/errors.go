package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Error kinds - handler map เป็น HTTP status ด้วย errors.Is
// ═══════════════════════════════════════════════════════════════════════════════

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrConflict        = errors.New("conflict")
	ErrGateway         = errors.New("payment gateway error")
)

// NotFound ห่อ ErrNotFound พร้อมชื่อสิ่งที่หาไม่เจอ
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Conflict ห่อ ErrConflict พร้อมข้อความ
func Conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConflict)
}

// ValidationError ข้อผิดพลาดของ input ระดับ field
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func NewValidationError(message string, fields map[string]string) *ValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// GatewayError payment gateway ล้มเหลว ไม่มีการเปลี่ยนสถานะเป็น paid
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// Identity ผู้ใช้ที่ผ่าน auth แล้ว ส่งเข้าทุก operation ของ cart/checkout/payment/favorites
type Identity struct {
	UserID uuid.UUID
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}
