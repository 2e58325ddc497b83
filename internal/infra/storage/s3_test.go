package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/vetclinic-api/internal/config"
)

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBase(config.S3Config{Bucket: "pets", PublicBaseURL: "https://cdn.example.com/"}))

	assert.Equal(t, "http://localhost:9000/pets",
		publicBase(config.S3Config{Bucket: "pets", Endpoint: "http://localhost:9000"}))

	assert.Equal(t, "https://pets.s3.sa-east-1.amazonaws.com",
		publicBase(config.S3Config{Bucket: "pets", Region: "sa-east-1"}))
}
