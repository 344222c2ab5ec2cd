package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tendant/simple-listing/pkg/simplelisting"
	s3storage "github.com/tendant/simple-listing/pkg/simplelisting/storage/s3"
)

func main() {
	// Define command-line flags
	region := flag.String("region", "us-east-1", "AWS region")
	bucket := flag.String("bucket", "", "S3 bucket name")
	accessKey := flag.String("access-key", "", "AWS access key ID")
	secretKey := flag.String("secret-key", "", "AWS secret access key")
	endpoint := flag.String("endpoint", "", "Custom S3 endpoint (for MinIO, etc.)")
	useSSL := flag.Bool("use-ssl", true, "Use SSL for connections")
	usePathStyle := flag.Bool("use-path-style", false, "Use path-style addressing")
	enableSSE := flag.Bool("enable-sse", false, "Enable server-side encryption")
	sseAlgorithm := flag.String("sse-algorithm", "AES256", "SSE algorithm (AES256 or aws:kms)")
	sseKMSKeyID := flag.String("sse-kms-key-id", "", "KMS key ID for aws:kms algorithm")
	presignDuration := flag.Int("presign-duration", 3600, "Duration in seconds for presigned URLs")
	createBucket := flag.Bool("create-bucket", false, "Create bucket if it doesn't exist")

	// Define commands
	command := flag.String("command", "help", "Command to execute: upload, download, delete, exists, url, styled-url, meta, help")
	objectKey := flag.String("key", "", "Object key for operations")
	filePath := flag.String("file", "", "File path for upload/download")
	style := flag.String("style", "", "Image style name for styled-url")

	// MinIO shortcut
	useMinio := flag.Bool("use-minio", false, "Use MinIO defaults (sets endpoint, path-style, etc.)")
	minioEndpoint := flag.String("minio-endpoint", "http://localhost:9000", "MinIO server endpoint")

	flag.Parse()

	// Apply MinIO defaults if requested
	if *useMinio {
		*endpoint = *minioEndpoint
		*useSSL = false
		*usePathStyle = true
		*createBucket = true
		if *accessKey == "" {
			*accessKey = "minioadmin"
		}
		if *secretKey == "" {
			*secretKey = "minioadmin"
		}
	}

	// Check for required parameters
	if *bucket == "" && *command != "help" && *command != "" {
		log.Fatal("Bucket name is required")
	}

	// Check for environment variables if flags not provided
	if *accessKey == "" {
		*accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}

	if *secretKey == "" {
		*secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	// Initialize S3 backend
	config := s3storage.Config{
		Region:                 *region,
		Bucket:                 *bucket,
		AccessKeyID:            *accessKey,
		SecretAccessKey:        *secretKey,
		Endpoint:               *endpoint,
		UseSSL:                 *useSSL,
		UsePathStyle:           *usePathStyle,
		PresignDuration:        *presignDuration,
		EnableSSE:              *enableSSE,
		SSEAlgorithm:           *sseAlgorithm,
		SSEKMSKeyID:            *sseKMSKeyID,
		CreateBucketIfNotExist: *createBucket,
	}

	// Skip backend initialization for help command
	var backend simplelisting.FileStore
	var ctx context.Context

	if *command != "help" && *command != "" {
		fmt.Println("Initializing S3 backend with the following configuration:")
		fmt.Printf("  Region: %s\n", config.Region)
		fmt.Printf("  Bucket: %s\n", config.Bucket)
		fmt.Printf("  Endpoint: %s\n", config.Endpoint)
		fmt.Printf("  Use SSL: %v\n", config.UseSSL)
		fmt.Printf("  Use Path Style: %v\n", config.UsePathStyle)
		fmt.Printf("  Create Bucket If Not Exist: %v\n", config.CreateBucketIfNotExist)
		fmt.Printf("  Server-side Encryption: %v\n", config.EnableSSE)
		if config.EnableSSE {
			fmt.Printf("  SSE Algorithm: %s\n", config.SSEAlgorithm)
		}
		fmt.Println()

		var err error
		backend, err = s3storage.New(config)
		if err != nil {
			log.Fatalf("Failed to initialize S3 backend: %v", err)
		}

		ctx = context.Background()
	}

	// Execute command
	switch strings.ToLower(*command) {
	case "upload":
		if *objectKey == "" || *filePath == "" {
			log.Fatal("Object key and file path are required for upload")
		}

		file, err := os.Open(*filePath)
		if err != nil {
			log.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		fmt.Printf("Uploading %s to %s...\n", *filePath, *objectKey)
		startTime := time.Now()
		err = backend.Upload(ctx, *objectKey, file)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		fmt.Printf("Upload successful (took %v)\n", duration)

	case "download":
		if *objectKey == "" || *filePath == "" {
			log.Fatal("Object key and file path are required for download")
		}

		fmt.Printf("Downloading %s to %s...\n", *objectKey, *filePath)
		startTime := time.Now()
		reader, err := backend.Download(ctx, *objectKey)
		if err != nil {
			log.Fatalf("Download failed: %v", err)
		}
		defer reader.Close()

		file, err := os.Create(*filePath)
		if err != nil {
			log.Fatalf("Failed to create file: %v", err)
		}
		defer file.Close()

		bytesWritten, err := io.Copy(file, reader)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Failed to write file: %v", err)
		}
		fmt.Printf("Download successful: %d bytes (took %v)\n", bytesWritten, duration)

	case "delete":
		if *objectKey == "" {
			log.Fatal("Object key is required for delete")
		}

		fmt.Printf("Deleting %s...\n", *objectKey)
		startTime := time.Now()
		err := backend.Delete(ctx, *objectKey)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("Delete successful (took %v)\n", duration)

	case "exists":
		if *objectKey == "" {
			log.Fatal("Object key is required for exists")
		}

		startTime := time.Now()
		exists, err := backend.Exists(ctx, *objectKey)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Exists check failed: %v", err)
		}
		fmt.Printf("Object %s exists: %v (took %v)\n", *objectKey, exists, duration)

	case "url":
		if *objectKey == "" {
			log.Fatal("Object key is required for url")
		}

		startTime := time.Now()
		url, err := backend.FileURL(ctx, *objectKey)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Failed to get file URL: %v", err)
		}
		fmt.Printf("URL for %s (presigned URLs valid for %d seconds):\n%s\n",
			*objectKey, *presignDuration, url)
		fmt.Printf("Generated in %v\n", duration)
		fmt.Println("\nTo use this URL with curl:")
		fmt.Printf("curl \"%s\" -o downloaded-file.txt\n", url)

	case "styled-url":
		if *objectKey == "" || *style == "" {
			log.Fatal("Object key and style are required for styled-url")
		}

		startTime := time.Now()
		url, err := backend.StyledFileURL(ctx, *objectKey, *style)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Failed to get styled file URL: %v", err)
		}
		fmt.Printf("Styled URL for %s (style %s):\n%s\n", *objectKey, *style, url)
		fmt.Printf("Generated in %v\n", duration)

	case "meta":
		if *objectKey == "" {
			log.Fatal("Object key is required for meta")
		}

		startTime := time.Now()
		meta, err := backend.GetFileMeta(ctx, *objectKey)
		duration := time.Since(startTime)
		if err != nil {
			log.Fatalf("Failed to get file metadata: %v", err)
		}
		fmt.Printf("Metadata for %s:\n", *objectKey)
		fmt.Printf("  Size: %d bytes\n", meta.Size)
		fmt.Printf("  Content Type: %s\n", meta.ContentType)
		fmt.Printf("  ETag: %s\n", meta.ETag)
		fmt.Printf("  Updated At: %s\n", meta.UpdatedAt.Format(time.RFC3339))
		for k, v := range meta.Metadata {
			fmt.Printf("  %s: %s\n", k, v)
		}
		fmt.Printf("Retrieved in %v\n", duration)

	case "help", "":
		fmt.Println("S3 Backend Test Application")
		fmt.Println("\nCommands:")
		fmt.Println("  upload      Upload a file to S3")
		fmt.Println("  download    Download a file from S3")
		fmt.Println("  delete      Delete an object from S3")
		fmt.Println("  exists      Check whether an object exists")
		fmt.Println("  url         Generate a download URL (presigned by default)")
		fmt.Println("  styled-url  Generate a URL for a styled image rendition")
		fmt.Println("  meta        Show object metadata")
		fmt.Println("  help        Show this help message")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  Upload a file to AWS S3:")
		fmt.Println("    s3test -bucket my-bucket -access-key AKIAXXXX -secret-key XXXX -command upload -key images/photo.jpg -file ./photo.jpg")
		fmt.Println("\n  Upload a file to MinIO:")
		fmt.Println("    s3test -use-minio -bucket my-bucket -command upload -key images/photo.jpg -file ./photo.jpg")
		fmt.Println("\n  Generate a pre-signed download URL:")
		fmt.Println("    s3test -bucket my-bucket -command url -key images/photo.jpg")
		fmt.Println("\n  Generate a styled rendition URL:")
		fmt.Println("    s3test -bucket my-bucket -command styled-url -key images/photo.jpg -style teaser_medium")

	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}
