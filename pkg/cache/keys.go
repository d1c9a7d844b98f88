package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always yield equal keys.
type Keyer interface {
	// PlanKey identifies the instruction plan for a document.
	PlanKey(documentHash string, opts PlanKeyOpts) string

	// ArtifactKey identifies one rendered output of a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// PlanKeyOpts holds everything besides the document that changes a plan.
type PlanKeyOpts struct {
	TargetWidth         float64 `json:"target_width"`
	TargetHeight        float64 `json:"target_height"`
	SafeMargin          float64 `json:"safe_margin"`
	SlideNumbers        bool    `json:"slide_numbers,omitempty"`
	ConstrainToSafeArea bool    `json:"safe_area,omitempty"`
}

// ArtifactKeyOpts holds everything besides the plan that changes an
// artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
}

// DefaultKeyer produces unscoped "plan:" and "artifact:" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey returns "plan:<digest>".
func (DefaultKeyer) PlanKey(documentHash string, opts PlanKeyOpts) string {
	return "plan:" + digest(documentHash, opts)
}

// ArtifactKey returns "artifact:<digest>".
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + digest(planHash, opts)
}

// digest hashes a content hash together with the JSON form of the options
// that shape its output. Option structs hold only plain fields, so encoding
// cannot fail.
func digest(contentHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return hex.EncodeToString(h.Sum(nil))
}

var _ Keyer = DefaultKeyer{}
