package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/SundayYogurt/site_service/config"
	"github.com/SundayYogurt/site_service/internal/dto"
)

const publishedPrefix = "published"

type BlogService interface {
	// ListPosts returns the metadata of every published post, newest first.
	ListPosts(ctx context.Context) ([]dto.BlogPostMeta, error)
	GetPost(ctx context.Context, slug string) (*dto.BlogPost, error)
}

type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type blogService struct {
	client s3API
	bucket string
}

func NewBlogService(cfg config.Config) (BlogService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})

	return &blogService{client: client, bucket: cfg.BlogBucket}, nil
}

func newBlogServiceWithClient(client s3API, bucket string) *blogService {
	return &blogService{client: client, bucket: bucket}
}

func (b *blogService) ListPosts(ctx context.Context) ([]dto.BlogPostMeta, error) {
	out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(publishedPrefix),
	})
	if err != nil {
		log.Printf("list blog posts error: %v", err)
		return []dto.BlogPostMeta{}, nil
	}

	posts := make([]dto.BlogPostMeta, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if !strings.HasSuffix(key, ".md") {
			continue
		}
		raw, err := b.download(ctx, key)
		if err != nil {
			log.Printf("download %s error: %v", key, err)
			continue
		}
		post, err := ParseBlogPost(raw, "")
		if err != nil {
			// a post with broken metadata is skipped, not fatal
			log.Printf("parse %s error: %v", key, err)
			continue
		}
		posts = append(posts, post.BlogPostMeta)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
	return posts, nil
}

func (b *blogService) GetPost(ctx context.Context, slug string) (*dto.BlogPost, error) {
	key := fmt.Sprintf("%s/%s.md", publishedPrefix, slug)
	raw, err := b.download(ctx, key)
	if err != nil {
		log.Printf("get blog post %s error: %v", slug, err)
		return nil, ErrPostNotFound
	}

	post, err := ParseBlogPost(raw, slug)
	if err != nil {
		log.Printf("parse blog post %s error: %v", slug, err)
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (b *blogService) download(ctx context.Context, key string) (string, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type frontMatter struct {
	Date  string `yaml:"date"`
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
}

// ParseBlogPost splits the leading YAML front matter block from a raw
// markdown post. date, slug and title are all required; when slug is passed
// in it wins over the front matter value.
func ParseBlogPost(raw, slug string) (*dto.BlogPost, error) {
	rest, ok := strings.CutPrefix(raw, "---\n")
	if !ok {
		return nil, errors.New("post front matter is missing")
	}
	head, contents, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return nil, errors.New("post front matter is not terminated")
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return nil, err
	}
	if meta.Date == "" || meta.Slug == "" || meta.Title == "" {
		return nil, errors.New("post metadata is missing")
	}
	if slug == "" {
		slug = meta.Slug
	}

	return &dto.BlogPost{
		BlogPostMeta: dto.BlogPostMeta{
			Date:  meta.Date,
			Slug:  slug,
			Title: meta.Title,
		},
		Contents: strings.TrimPrefix(contents, "\n"),
	}, nil
}
