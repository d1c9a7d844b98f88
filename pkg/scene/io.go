package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/figslides/pkg/errors"
)

// ReadJSON decodes a document from r and validates it.
//
// The returned error carries an [errors.Code]: INVALID_INPUT when r does not
// hold a JSON document object, NO_SLIDES when the document has no slides.
// Problems inside individual layers are not errors; see [Layer.Malformed].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "No data provided")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse decodes a document held in memory. See [ReadJSON].
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "No data provided")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads the document stored at path.
func ImportJSON(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Validate rejects documents that cannot produce any output.
func (d *Document) Validate() error {
	if len(d.Slides) == 0 {
		return errors.New(errors.ErrCodeNoSlides, "No slides provided")
	}
	return nil
}

// WriteJSON encodes d as indented JSON. Malformed layers are written with
// whatever could be recovered.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Hash returns a content hash of d in canonical (re-encoded) form, so that
// whitespace and key order in the original export do not matter.
func Hash(d *Document) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
