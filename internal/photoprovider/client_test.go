package photoprovider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurinko-app/daycal/internal/conf"
)

const testBaseURL = "https://photos.example.com"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient(conf.ProviderSettings{
		BaseURL:        testBaseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	})
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

const samplePhotoJSON = `{
	"id": "abc123",
	"urls": {
		"full": "https://images.example.com/abc123/full.jpg",
		"thumb": "https://images.example.com/abc123/thumb.jpg"
	},
	"user": {
		"name": "Jane Photographer",
		"links": {"html": "https://photos.example.com/@jane"}
	},
	"links": {"download_location": "https://photos.example.com/photos/abc123/download"},
	"tags": [
		{"title": "mountain"},
		{"title": "sunrise"},
		{"title": ""}
	]
}`

func TestFetchRandomPhoto(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/photos/random",
		httpmock.NewStringResponder(http.StatusOK, samplePhotoJSON))

	meta, err := client.FetchRandomPhoto(context.Background(), "mountain sunrise")
	require.NoError(t, err)

	assert.Equal(t, "abc123", meta.SourceID)
	assert.Equal(t, "https://images.example.com/abc123/full.jpg", meta.FullURL)
	assert.Equal(t, "https://images.example.com/abc123/thumb.jpg", meta.ThumbnailURL)
	assert.Equal(t, "Jane Photographer", meta.Author)
	assert.Equal(t, "https://photos.example.com/@jane", meta.AuthorURL)
	assert.Equal(t, "https://photos.example.com/photos/abc123/download", meta.DownloadTrackingURL)
	assert.Equal(t, []string{"mountain", "sunrise"}, meta.Tags, "empty tag titles should be skipped")
}

func TestFetchRandomPhotoNotFound(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/photos/random",
		httpmock.NewStringResponder(http.StatusNotFound, `{"errors":["No photos found"]}`))

	_, err := client.FetchRandomPhoto(context.Background(), "xyzzy nothing matches")
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestFetchRandomPhotoServerError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/photos/random",
		httpmock.NewStringResponder(http.StatusInternalServerError, "oops"))

	_, err := client.FetchRandomPhoto(context.Background(), "mountain")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPhotoNotFound)
}

func TestFetchRandomPhotoMalformedResponse(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/photos/random",
		httpmock.NewStringResponder(http.StatusOK, `{"urls": {"full": "x"}}`))

	_, err := client.FetchRandomPhoto(context.Background(), "mountain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing photo id")
}

func TestFetchRandomPhotoSendsAuthAndQuery(t *testing.T) {
	client := newTestClient(t)

	var gotAuth, gotQuery string
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/photos/random",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			gotQuery = req.URL.Query().Get("query")
			return httpmock.NewStringResponse(http.StatusOK, samplePhotoJSON), nil
		})

	_, err := client.FetchRandomPhoto(context.Background(), "winter lake")
	require.NoError(t, err)
	assert.Equal(t, "Client-ID test-key", gotAuth)
	assert.Equal(t, "winter lake", gotQuery)
}

func TestDownloadBytes(t *testing.T) {
	client := newTestClient(t)

	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	httpmock.RegisterResponder(http.MethodGet, "https://images.example.com/abc123/full.jpg",
		httpmock.NewBytesResponder(http.StatusOK, payload))

	data, err := client.DownloadBytes(context.Background(), "https://images.example.com/abc123/full.jpg")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadBytesFailureStatus(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://images.example.com/gone.jpg",
		httpmock.NewStringResponder(http.StatusForbidden, "denied"))

	_, err := client.DownloadBytes(context.Background(), "https://images.example.com/gone.jpg")
	assert.Error(t, err)
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRandomPhoto(ctx, "mountain")
	assert.Error(t, err)
}
