package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"unifiedweb_go/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

type StorageService struct {
	s3Client *s3.S3
	bucket   string
}

// NewStorageService creates a new storage service
func NewStorageService() (*StorageService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AppConfig.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			config.AppConfig.AWSAccessKeyID,
			config.AppConfig.AWSSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		bucket:   config.AppConfig.S3BucketName,
	}, nil
}

// UploadBytes puts an object under key and returns its public URL.
func (s *StorageService) UploadBytes(key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return s.publicURL(key), nil
}

// StashExport archives a generated grade workbook under exports/.
func (s *StorageService) StashExport(fileName string, data []byte, userID uint) (string, error) {
	key := s.datedKey("exports", fileName, userID)
	return s.UploadBytes(key, data, s.contentTypeFor(s.fileExtension(fileName)))
}

// StashImport keeps the original uploaded sheet under imports/ for audit.
func (s *StorageService) StashImport(file *multipart.FileHeader, userID uint) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	key := s.datedKey("imports", file.Filename, userID)
	return s.UploadBytes(key, data, s.contentTypeFor(s.fileExtension(file.Filename)))
}

// DeleteFile deletes a file from S3
func (s *StorageService) DeleteFile(fileURL string) error {
	key := s.extractKeyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("invalid file URL")
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	return err
}

// datedKey builds folder/userID/YYYY/MM/DD/shortuuid_name keys so
// repeated exchanges of the same sheet never collide.
func (s *StorageService) datedKey(folder, fileName string, userID uint) string {
	now := time.Now()
	randomID := uuid.New().String()[:16]
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return fmt.Sprintf("%s/%d/%d/%02d/%02d/%s_%s",
		folder,
		userID,
		now.Year(),
		now.Month(),
		now.Day(),
		randomID,
		base,
	)
}

func (s *StorageService) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.bucket,
		config.AppConfig.AWSRegion,
		key,
	)
}

// fileExtension extracts file extension from filename
func (s *StorageService) fileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 1 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// contentTypeFor returns the MIME type for the file extension
func (s *StorageService) contentTypeFor(extension string) string {
	switch strings.ToLower(extension) {
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "xls":
		return "application/vnd.ms-excel"
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// extractKeyFromURL extracts the S3 key from a full URL
func (s *StorageService) extractKeyFromURL(url string) string {
	parts := strings.Split(url, ".amazonaws.com/")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
