package store

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/netloom/pkg/errors"
)

// S3Config configures the S3 artifact store.
type S3Config struct {
	Bucket string
	Prefix string
	Region string
}

// s3Client is the subset of the S3 API the store uses. It matches
// s3.ListObjectsV2APIClient so the paginator accepts it directly.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store writes artifacts to an S3 bucket under an optional key prefix.
type S3Store struct {
	client s3Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed store. Credentials resolve through the
// standard AWS chain (environment, shared config, instance role).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "s3 store requires a bucket")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load aws config")
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Write uploads data as an object named after the artifact.
func (s *S3Store) Write(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateArtifactName(name); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(name)),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put s3 object %s", name)
	}
	return nil
}

// List returns metadata for all objects under the store prefix. S3 lists
// keys lexicographically, so results arrive sorted by name.
func (s *S3Store) List(ctx context.Context) ([]Artifact, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	var artifacts []Artifact
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "list s3 objects")
		}
		for _, obj := range page.Contents {
			name := aws.ToString(obj.Key)
			if s.prefix != "" {
				name = strings.TrimPrefix(name, s.prefix+"/")
			}
			// Skip keys nested below the prefix; artifacts are flat.
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			artifacts = append(artifacts, Artifact{
				Name:     name,
				Size:     aws.ToInt64(obj.Size),
				Modified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return artifacts, nil
}

// Close does nothing for the S3 backend.
func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// contentTypeFor maps artifact extensions to MIME types so downloads open
// in the right tool.
func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".graphml", ".xml":
		return "application/xml"
	case ".svg":
		return "image/svg+xml"
	case ".dot":
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

var _ Store = (*S3Store)(nil)
