package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"couple-journal-backend/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultUploadExpiry = 5 * time.Minute

// PhotoConfig describes the bucket photos are uploaded to
type PhotoConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // S3-compatible endpoint; empty means AWS
	PublicURL string // base URL objects are served from
	Expiry    time.Duration
}

type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoService hands out presigned upload URLs for relationship photos
type PhotoService struct {
	access    *Access
	presigner presigner
	cfg       PhotoConfig
}

// NewPhotoService creates a new photo service. Without a bucket uploads are disabled.
func NewPhotoService(ctx context.Context, access *Access, cfg PhotoConfig) (*PhotoService, error) {
	if cfg.Expiry <= 0 {
		cfg.Expiry = defaultUploadExpiry
	}
	s := &PhotoService{access: access, cfg: cfg}
	if cfg.Bucket == "" {
		log.Warn().Msg("S3 bucket not configured, photo uploads disabled")
		return s, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	s.presigner = s3.NewPresignClient(client)
	return s, nil
}

// Upload is a presigned PUT the client uploads the photo bytes to
type Upload struct {
	UploadURL string `json:"uploadUrl"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

// Presign returns an upload URL for a photo stored under the relationship
func (s *PhotoService) Presign(ctx context.Context, userID, relationshipID, filename, contentType string) (*Upload, error) {
	if err := s.access.EnsureRelationship(ctx, relationshipID, userID); err != nil {
		return nil, err
	}
	if s.presigner == nil {
		return nil, apperr.BadRequest("Photo uploads are not configured", nil)
	}

	key := fmt.Sprintf("relationships/%s/%s%s", relationshipID, uuid.New().String(), extension(filename, contentType))
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.cfg.Expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	log.Debug().
		Str("user_id", userID).
		Str("relationship_id", relationshipID).
		Str("key", key).
		Msg("Photo upload presigned")

	return &Upload{
		UploadURL: req.URL,
		Method:    req.Method,
		Key:       key,
		URL:       s.objectURL(key),
		ExpiresIn: int(s.cfg.Expiry.Seconds()),
	}, nil
}

func (s *PhotoService) objectURL(key string) string {
	switch {
	case s.cfg.PublicURL != "":
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}

// extension keeps the filename's extension, falling back to the image subtype
func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		return "." + sub
	}
	return ".jpg"
}
