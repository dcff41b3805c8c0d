package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHashDependsOnEveryPart(t *testing.T) {
	base := Fingerprint{ContentHash: "c", RelatedHash: "r", ThemeHash: "t", ConfigHash: "g", RendererHash: "v1"}
	base.ComputeRenderHash()
	assert.Len(t, base.RenderHash, 64)

	changed := base
	changed.RelatedHash = "r2"
	changed.ComputeRenderHash()
	assert.NotEqual(t, base.RenderHash, changed.RenderHash)

	same := base
	same.ComputeRenderHash()
	assert.Equal(t, base.RenderHash, same.RenderHash)
}

func TestHashBytesSeparatesParts(t *testing.T) {
	assert.NotEqual(t, HashBytes([]byte("ab"), []byte("c")), HashBytes([]byte("a"), []byte("bc")))
}
