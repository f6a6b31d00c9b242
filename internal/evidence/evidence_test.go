package evidence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/workdesk/internal/domain"
	"github.com/mtlprog/workdesk/internal/evidence"
)

func TestDisabled_Open(t *testing.T) {
	obj, err := evidence.Disabled{}.Open(context.Background(), "file-1")
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, domain.ErrEvidenceNotFound)
}

func TestNewMinioStore(t *testing.T) {
	store, err := evidence.NewMinioStore(evidence.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "dispute-evidence",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewMinioStore_InvalidEndpoint(t *testing.T) {
	_, err := evidence.NewMinioStore(evidence.MinioConfig{Endpoint: "http://localhost:9000/path"})
	assert.Error(t, err)
}
