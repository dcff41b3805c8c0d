package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies everything a rendered post page depends on. A page
// whose RenderHash matches the stored one does not need to be written again.
type Fingerprint struct {
	ContentHash  string
	RelatedHash  string
	ThemeHash    string
	ConfigHash   string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	for _, part := range []string{f.ContentHash, f.RelatedHash, f.ThemeHash, f.ConfigHash, f.RendererHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// HashBytes is the hex sha256 of data, used for the individual parts.
func HashBytes(data ...[]byte) string {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
