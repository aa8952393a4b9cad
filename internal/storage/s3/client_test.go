package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"lawfirm-cms/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	body    string
	deleted []string
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPutAndDelete(t *testing.T) {
	api := &fakeS3{}
	c := newWithAPI(api, &config.AWSConfig{Bucket: "firm-assets", Region: "eu-west-1"})

	obj, err := c.Put(context.Background(), "hero.jpg", "image/jpeg", []byte("JPEG"))
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "firm-assets", aws.StringValue(api.puts[0].Bucket))
	assert.Equal(t, "image/jpeg", aws.StringValue(api.puts[0].ContentType))
	assert.Equal(t, "JPEG", api.body)
	assert.Equal(t, obj.PublicID, aws.StringValue(api.puts[0].Key))
	assert.True(t, strings.HasPrefix(obj.URL, "https://firm-assets.s3.eu-west-1.amazonaws.com/images/"))

	require.NoError(t, c.Delete(context.Background(), obj.PublicID))
	assert.Equal(t, []string{obj.PublicID}, api.deleted)
}

func TestPublicBaseURL(t *testing.T) {
	c := newWithAPI(&fakeS3{}, &config.AWSConfig{Bucket: "b", Endpoint: "http://minio:9000"})
	assert.Equal(t, "http://minio:9000/b", c.publicBaseURL)

	c = newWithAPI(&fakeS3{}, &config.AWSConfig{Bucket: "b", PublicBaseURL: "https://cdn.firm.test/"})
	assert.Equal(t, "https://cdn.firm.test/", c.publicBaseURL)
}
