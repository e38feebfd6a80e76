package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper provides a tiny fake S3 subset (GetObject, PutObject) without network access.
type mockRoundTripper struct {
	mu    sync.Mutex
	state map[string][]byte
	fail  bool
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return xmlError(http.StatusInternalServerError, "InternalError"), nil
	}
	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok { // handle aws-chunked encoding
			body = dec
		}
		m.state[key] = body
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
	case http.MethodGet:
		if body, ok := m.state[key]; ok {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: http.Header{
				"Content-Length": {strconv.Itoa(len(body))},
				"Content-Type":   {"application/json"},
				"ETag":           {"\"etag\""},
			}}, nil
		}
		return xmlError(http.StatusNotFound, "NoSuchKey"), nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

func xmlError(status int, code string) *http.Response {
	body := "<?xml version=\"1.0\" encoding=\"UTF-8\"?><Error><Code>" + code + "</Code><Message>mock</Message></Error>"
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{"Content-Type": {"application/xml"}}}
}

// decodeChunked decodes a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	size, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size || !strings.HasPrefix(parts[2], "0") {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newMockMedium(t *testing.T) (*S3Medium, *mockRoundTripper) {
	t.Helper()
	rt := &mockRoundTripper{state: map[string][]byte{}}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RetryMaxAttempts = 1
	})
	medium, err := NewS3Medium(S3MediumArgs{Client: client, Bucket: "catalog", Key: "documents/file.json"})
	require.NoError(t, err)
	return medium, rt
}

func TestNewS3Medium_MandatoryArgs(t *testing.T) {
	_, err := NewS3Medium(S3MediumArgs{Bucket: "b", Key: "k"})
	require.Error(t, err)
	_, err = NewS3Medium(S3MediumArgs{Client: &s3.Client{}, Key: "k"})
	require.Error(t, err)
}

func TestS3Medium_ReadMissing(t *testing.T) {
	medium, _ := newMockMedium(t)
	_, err := medium.Read(context.Background())
	assert.ErrorIs(t, err, model.ErrNoDocument)
}

func TestS3Medium_WriteRead(t *testing.T) {
	medium, rt := newMockMedium(t)
	ctx := context.Background()

	require.NoError(t, medium.Write(ctx, []byte(`{"Amenity_a1": {"name": "Wifi"}}`)))
	require.NoError(t, medium.Write(ctx, []byte(`{"Amenity_a2": {"name": "Pool"}}`)))

	got, err := medium.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"Amenity_a2": {"name": "Pool"}}`, string(got))
	assert.Len(t, rt.state, 1)
	assert.Contains(t, rt.state, "catalog/documents/file.json")
}

func TestS3Medium_ServerError(t *testing.T) {
	medium, rt := newMockMedium(t)
	rt.fail = true
	ctx := context.Background()

	err := medium.Write(ctx, []byte(`{}`))
	require.Error(t, err)

	_, err = medium.Read(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNoDocument)
}
