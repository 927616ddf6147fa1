// Copyright (c) 2014-2019 Daniel Kraft
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
	"io"
)

// ErrMalformedAuxpow is returned on deserialization when a header's version
// demands an AuxPoW payload but the bytes that follow the pure header are
// absent or truncated.
var ErrMalformedAuxpow = errors.New("wire: header claims AuxPoW but carries no payload")

// BlockHeader is the full, possibly merge-mined, block header: the 80-byte
// PureHeader plus an optional AuxPoW payload. Whether the payload is
// present on the wire is governed entirely by PureHeader.Version: it is
// written and expected only when IsAuxpow() is set and the chain ID lies
// in the merge-minable range (0, 0x100), matching the reference client's
// CBlockHeader::IsAuxpowInVersion-gated (de)serialization.
type BlockHeader struct {
	PureHeader
	AuxPow *AuxPow
}

// carriesAuxpowPayload reports whether this header's version field demands
// an AuxPoW payload on the wire.
func (h *BlockHeader) carriesAuxpowPayload() bool {
	return h.IsAuxpow() && h.ChainID() > 0 && h.ChainID() < 0x100
}

// Serialize writes the wire form of the header: the 80-byte pure header,
// followed by the AuxPoW payload if the version demands one and it is
// attached. A version that demands a payload but carries none still
// serializes cleanly, emitting only the pure header — the bytes this
// produces are malformed by the version field's own promise, but that is
// caught on the receiving end by Deserialize, not here.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := h.PureHeader.Serialize(w); err != nil {
		return err
	}
	if !h.carriesAuxpowPayload() || h.AuxPow == nil {
		return nil
	}
	return h.AuxPow.Serialize(w)
}

// Deserialize reads the wire form of a header from r, reading an AuxPoW
// payload afterward only when the decoded version requires one. A version
// that requires one but finds nothing, or a truncated payload, is reported
// as ErrMalformedAuxpow.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := h.PureHeader.Deserialize(r); err != nil {
		return err
	}
	if !h.carriesAuxpowPayload() {
		h.AuxPow = nil
		return nil
	}
	ap := new(AuxPow)
	if err := ap.Deserialize(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAuxpow, err)
	}
	h.AuxPow = ap
	return nil
}
