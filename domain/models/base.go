package models

import (
	"github.com/google/uuid"
)

// assignID ใส่ UUID ให้ record ใหม่ที่ยังไม่มี ID (ไม่พึ่ง gen_random_uuid ของ postgres)
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
