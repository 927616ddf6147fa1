// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 XBT Foundation
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

// TestAddDataCanonicalEncoding checks the minimal-push encoding chosen for
// a handful of representative data lengths.
func TestAddDataCanonicalEncoding(t *testing.T) {
	tests := []struct {
		name       string
		dataLen    int
		wantPrefix []byte
	}{
		{"empty", 0, []byte{0x00}},
		{"one byte", 1, []byte{0x01}},
		{"just under pushdata1", OpPushdata1 - 1, []byte{OpPushdata1 - 1}},
		{"needs pushdata1", 0x80, []byte{OpPushdata1, 0x80}},
		{"needs pushdata2", 0x100, []byte{OpPushdata2, 0x00, 0x01}},
	}

	for _, test := range tests {
		data := bytes.Repeat([]byte{0xab}, test.dataLen)
		script, err := NewScriptBuilder().AddData(data).Script()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !bytes.HasPrefix(script, test.wantPrefix) {
			t.Errorf("%s: script prefix = %x, want %x", test.name, script[:len(test.wantPrefix)], test.wantPrefix)
		}
		if !bytes.Equal(script[len(test.wantPrefix):], data) {
			t.Errorf("%s: pushed data does not follow the length prefix", test.name)
		}
	}
}

// TestAddDataOversized ensures a push larger than maxScriptElementSize is
// rejected rather than silently truncated or wrapped in pushdata4.
func TestAddDataOversized(t *testing.T) {
	data := bytes.Repeat([]byte{0x01}, maxScriptElementSize+1)
	_, err := NewScriptBuilder().AddData(data).Script()
	if err == nil {
		t.Error("expected error for oversized data push, got nil")
	}
}

// TestAddOpThenAddData ensures AddOp and AddData compose, and that a prior
// error short-circuits further builder calls.
func TestAddOpThenAddData(t *testing.T) {
	script, err := NewScriptBuilder().AddOp(0x51).AddData([]byte{0x01, 0x02}).Script()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x51, 0x02, 0x01, 0x02}
	if !bytes.Equal(script, want) {
		t.Errorf("script = %x, want %x", script, want)
	}

	oversized := bytes.Repeat([]byte{0x01}, maxScriptElementSize+1)
	b := NewScriptBuilder().AddData(oversized)
	before, _ := b.Script()
	b.AddOp(0x51)
	after, _ := b.Script()
	if !bytes.Equal(before, after) {
		t.Error("builder continued appending after recording an error")
	}
}
