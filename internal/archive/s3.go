package archive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"campus-notes-bot/internal/config"
	"campus-notes-bot/internal/gateway"
)

const s3RefPrefix = "s3:"

// S3Archiver stores the permanent copy in an S3-compatible bucket. Archiving
// streams the document from the transport's download URL into the bucket;
// delivery hands the user a short-lived presigned GET URL via the gateway.
type S3Archiver struct {
	gw     gateway.Gateway
	config *config.Config
	client *http.Client
}

func NewS3Archiver(gw gateway.Gateway, cfg *config.Config) *S3Archiver {
	return &S3Archiver{
		gw:     gw,
		config: cfg,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("notes/%d/%d/%d/%v.pdf", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (a *S3Archiver) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(a.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (a *S3Archiver) Archive(ctx context.Context, src gateway.ContentRef) (string, error) {

	url, err := a.gw.ContentURL(ctx, src)
	if err != nil {
		return "", fmt.Errorf("error resolving content url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error downloading content: status %d", resp.StatusCode)
	}

	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := a.config.S3Bucket
	key := storageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          resp.Body,
		ContentLength: aws.Int64(resp.ContentLength),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to archive bucket: %w", err)
	}

	return s3RefPrefix + key, nil
}

func (a *S3Archiver) Deliver(ctx context.Context, ref string, userID int64) error {
	key, ok := strings.CutPrefix(ref, s3RefPrefix)
	if !ok {
		return fmt.Errorf("ref %q does not belong to the s3 archiver", ref)
	}

	client, err := a.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := a.config.S3Bucket

	presignClient := s3.NewPresignClient(client)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return fmt.Errorf("error presigning archived content: %w", err)
	}

	return a.gw.SendDocument(ctx, userID, req.URL, "")
}
