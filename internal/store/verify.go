package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// Verification is the result of an explicit content check.
type Verification struct {
	SHA256 string `json:"sha256"`
	CID    string `json:"cid"`
	Size   int64  `json:"size"`
}

// Verify computes the sha256 of the artifact at path, streaming so
// memory stays flat for multi-gigabyte files, and renders it both as
// bare hex (the blob-store form) and as a CIDv1 string for
// cross-referencing CID-addressed stores. Resolution never calls this
// implicitly — the format signature is the only cheap check it trusts.
func Verify(path string) (*Verification, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return nil, fmt.Errorf("hash artifact: %w", err)
	}
	sum := h.Sum(nil)

	mh, err := multihash.Encode(sum, multihash.SHA2_256)
	if err != nil {
		return nil, fmt.Errorf("multihash: %w", err)
	}
	c := gocid.NewCidV1(gocid.Raw, mh)
	encoded, err := multibase.Encode(multibase.Base32, c.Bytes())
	if err != nil {
		return nil, fmt.Errorf("encode cid: %w", err)
	}

	return &Verification{
		SHA256: hex.EncodeToString(sum),
		CID:    encoded,
		Size:   size,
	}, nil
}
