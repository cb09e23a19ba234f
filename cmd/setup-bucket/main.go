package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"

	"loft-shop/infrastructure/storage"
	"loft-shop/pkg/config"
)

// setup-bucket สร้าง bucket (ถ้ายังไม่มี) และเปิด public read ให้รูปสินค้า products/*
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	s3 := cfg.Storage.S3

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("  Product Image Bucket Setup")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("\nEndpoint: %s\n", s3.Endpoint)
	fmt.Printf("Bucket: %s\n", s3.Bucket)
	fmt.Printf("Region: %s\n", s3.Region)

	client, err := storage.NewMinioClient(storage.S3StorageConfig{
		Endpoint:  s3.Endpoint,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Bucket:    s3.Bucket,
		UseSSL:    s3.UseSSL,
		Region:    s3.Region,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, s3.Bucket)
	if err != nil {
		log.Fatalf("Failed to check bucket: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s3.Bucket, minio.MakeBucketOptions{Region: s3.Region}); err != nil {
			log.Fatalf("Failed to create bucket: %v", err)
		}
		fmt.Printf("\n✓ Bucket '%s' created\n", s3.Bucket)
	} else {
		fmt.Printf("\n✓ Bucket '%s' exists\n", s3.Bucket)
	}

	// รูปสินค้าอ่านได้ทุกคน เขียน/ลบผ่าน API เท่านั้น
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Sid":       "PublicReadProductImages",
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/products/*", s3.Bucket)},
			},
		},
	}

	policyJSON, _ := json.MarshalIndent(policy, "", "  ")

	fmt.Println("\n--- Setting Bucket Policy ---")
	fmt.Println(string(policyJSON))

	if err := client.SetBucketPolicy(ctx, s3.Bucket, string(policyJSON)); err != nil {
		log.Printf("⚠️  Warning: Failed to set policy: %v", err)
	} else {
		fmt.Println("\n✓ Bucket policy set successfully")
	}

	fmt.Println("\n--- Testing Basic Operations ---")

	fmt.Print("Testing PutObject... ")
	testKey := "products/_setup/permission-check.txt"
	testContent := []byte("loft permission check")
	_, err = client.PutObject(ctx, s3.Bucket, testKey,
		bytes.NewReader(testContent), int64(len(testContent)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		fmt.Printf("❌ Failed: %v\n", err)
	} else {
		fmt.Println("✓ OK")
		fmt.Print("Testing RemoveObject... ")
		if err := client.RemoveObject(ctx, s3.Bucket, testKey, minio.RemoveObjectOptions{}); err != nil {
			fmt.Printf("❌ Failed: %v\n", err)
		} else {
			fmt.Println("✓ OK")
		}
	}

	fmt.Println("\n═══════════════════════════════════════════════════════════════")
	fmt.Println("  Setup Complete!")
	fmt.Println("═══════════════════════════════════════════════════════════════")
}
