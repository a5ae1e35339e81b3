package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	st := NewStubObjectStorage("https://files.test/")

	raw, expiresAt, err := st.GenerateUploadURL(ctx, "products/x.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, time.Second)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/upload/products/x.png", u.Path)
	assert.Equal(t, "image/png", u.Query().Get("content_type"))

	assert.Equal(t, "https://files.test/products/x.png", st.PublicURL("products/x.png"))

	require.NoError(t, st.DeleteObject(ctx, "products/x.png"))
	assert.Equal(t, []string{"products/x.png"}, st.Deleted())
	assert.ErrorIs(t, st.DeleteObject(ctx, ""), errKeyRequired)

	assert.Equal(t, "http://localhost:9000/marketplace", NewStubObjectStorage("").BaseURL)
}
