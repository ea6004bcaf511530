// Where: internal/deployer/preflight.go
// What: Pulumi backend reachability check.
// Why: Surface a clear credentials error before the engine starts mutating state.
package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pacorain/mono/internal/secrets"
)

// preflightBackend verifies an s3:// backend bucket is reachable with
// the configured credentials. Non-S3 backends (file://, pulumi cloud)
// are left to the engine.
func (d *Deployer) preflightBackend(ctx context.Context) error {
	bucket, ok := backendBucket(d.backend.URL)
	if !ok {
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			d.backend.AWS.AccessKeyID,
			d.backend.AWS.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return fmt.Errorf("%w: load AWS config: %v", secrets.ErrCredentials, err)
	}

	client := s3.NewFromConfig(cfg)
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("%w: state bucket %q is not reachable: %v", secrets.ErrCredentials, bucket, err)
	}
	return nil
}

// backendBucket extracts the bucket name from an s3://bucket[/prefix] URL.
func backendBucket(backendURL string) (string, bool) {
	rest, ok := strings.CutPrefix(backendURL, "s3://")
	if !ok || rest == "" {
		return "", false
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		rest = rest[:idx]
	}
	return rest, rest != ""
}
