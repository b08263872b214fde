package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Artin0123/API-backend/internal/domain"
)

func TestComputeKey_Deterministic(t *testing.T) {
	key1 := ComputeKey("203.0.113.5", domain.SourceGET)
	key2 := ComputeKey("203.0.113.5", domain.SourceGET)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 16)
	assert.Regexp(t, "^[0-9a-f]+$", key1)
}

func TestComputeKey_SourceTypeDistinguishesIdentities(t *testing.T) {
	getKey := ComputeKey("203.0.113.5", domain.SourceGET)
	postKey := ComputeKey("203.0.113.5", domain.SourcePOST)

	assert.NotEqual(t, getKey, postKey)
}

func TestComputeKey_DifferentIPsDiffer(t *testing.T) {
	assert.NotEqual(t,
		ComputeKey("203.0.113.5", domain.SourceGET),
		ComputeKey("203.0.113.6", domain.SourceGET),
	)
}
