package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	listErr error
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func post(date, slug, title, contents string) string {
	return "---\ndate: " + date + "\nslug: " + slug + "\ntitle: " + title + "\n---\n" + contents
}

func TestListPosts(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"published/older.md":  post("2024-01-10", "older", "An older post", "old body"),
		"published/newer.md":  post("2024-05-01", "newer", "A newer post", "new body"),
		"published/image.png": "not markdown",
	}}
	svc := newBlogServiceWithClient(client, "blog-bucket")

	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "older", posts[1].Slug)
}

func TestListPostsSkipsBrokenPost(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"published/good.md":   post("2024-05-01", "good", "A good post", "body"),
		"published/broken.md": "no front matter here",
	}}
	svc := newBlogServiceWithClient(client, "blog-bucket")

	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "good", posts[0].Slug)
}

func TestListPostsStorageDown(t *testing.T) {
	svc := newBlogServiceWithClient(&fakeS3{listErr: errors.New("boom")}, "blog-bucket")

	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPost(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"published/hello.md": post("2024-05-01", "hello", "Hello", "# Hello\n\nworld"),
	}}
	svc := newBlogServiceWithClient(client, "blog-bucket")

	got, err := svc.GetPost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Slug)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "# Hello\n\nworld", got.Contents)
}

func TestGetPostNotFound(t *testing.T) {
	svc := newBlogServiceWithClient(&fakeS3{objects: map[string]string{}}, "blog-bucket")

	_, err := svc.GetPost(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestParseBlogPost(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		slug    string
		wantErr bool
	}{
		{name: "valid", raw: post("2024-05-01", "hello", "Hello", "body")},
		{name: "param slug wins", raw: post("2024-05-01", "meta-slug", "Hello", "body"), slug: "url-slug"},
		{name: "no front matter", raw: "just markdown", wantErr: true},
		{name: "unterminated front matter", raw: "---\ndate: 2024-05-01\n", wantErr: true},
		{name: "missing title", raw: "---\ndate: 2024-05-01\nslug: hello\n---\nbody", wantErr: true},
		{name: "missing date", raw: "---\nslug: hello\ntitle: Hello\n---\nbody", wantErr: true},
		{name: "bad yaml", raw: "---\n\t: {\n---\nbody", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBlogPost(tt.raw, tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2024-05-01", got.Date)
			assert.Equal(t, "body", got.Contents)
			if tt.slug != "" {
				assert.Equal(t, tt.slug, got.Slug)
			}
		})
	}
}
