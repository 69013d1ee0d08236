// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package connectome persists and restores the complete network state: the
neuron and synapse stores, the cortical area table, the burst counter, and
free-form metadata.  Snapshots are written into a small binary container
(see format.go) whose payload is tab-indented JSON, optionally
gzip-compressed.  A snapshot is created on demand, never mutated after
creation, and discarded after load.
*/
package connectome

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/feagi/npu/npu"
	"github.com/google/uuid"
)

// Metadata is the free-form snapshot metadata.
type Metadata struct {
	Session     string            `desc:"uuid of the session that produced the snapshot"`
	Created     time.Time         `desc:"creation timestamp"`
	Description string            `desc:"free-form description"`
	Source      string            `desc:"name of the originating network"`
	Tags        []string          `desc:"free-form tags"`
	Extra       map[string]string `desc:"any additional key-value metadata"`
}

// Snapshot is a serializable capture of the full connectome at a burst
// boundary.
type Snapshot struct {
	Neurons  *npu.Neurons  `desc:"neuron store"`
	Synapses *npu.Synapses `desc:"synapse store"`
	Areas    []*npu.Area   `desc:"cortical area table"`
	Burst    uint64        `desc:"burst counter at capture time"`
	Meta     Metadata      `desc:"free-form metadata"`
}

// Capture builds a snapshot of the network at the given burst count.  The
// caller must ensure no burst is in flight (pause or stop the loop, or call
// from a checkpoint callback, which runs between bursts).
func Capture(nt *npu.Network, burst uint64, desc string, tags []string) *Snapshot {
	sn := &Snapshot{Neurons: nt.Neurons, Synapses: nt.Synapses, Areas: nt.Areas, Burst: burst}
	sn.Meta = Metadata{
		Session:     uuid.NewString(),
		Created:     time.Now(),
		Description: desc,
		Source:      nt.Nm,
		Tags:        tags,
	}
	return sn
}

// Network reconstructs a network from the snapshot, rebuilding the derived
// state (area map, source index) that is not persisted.
func (sn *Snapshot) Network() *npu.Network {
	nt := &npu.Network{Nm: sn.Meta.Source}
	nt.Neurons = sn.Neurons
	nt.Synapses = sn.Synapses
	nt.Areas = sn.Areas
	nt.AreaMap = make(map[string]int, len(sn.Areas))
	for i, ar := range sn.Areas {
		nt.AreaMap[ar.Nm] = i
	}
	nt.Synapses.RebuildSourceIndex()
	nt.Model = npu.DefaultModel()
	return nt
}

// Encode writes the snapshot into the binary container on w, compressing
// the payload when compress is set.
func (sn *Snapshot) Encode(w io.Writer, compress bool) error {
	payload, err := json.MarshalIndent(sn, "", "\t")
	if err != nil {
		return fmt.Errorf("connectome: encoding payload: %w", err)
	}
	hd := &Header{Version: Version, Size: uint64(len(payload)), Checksum: Checksum(payload)}
	body := payload
	if compress {
		hd.Flags |= FlagCompressed
		var zb bytes.Buffer
		gzw := gzip.NewWriter(&zb)
		if _, err := gzw.Write(payload); err != nil {
			return fmt.Errorf("connectome: compressing payload: %w", err)
		}
		if err := gzw.Close(); err != nil {
			return fmt.Errorf("connectome: compressing payload: %w", err)
		}
		body = zb.Bytes()
	}
	if err := WriteHeader(w, hd); err != nil {
		return fmt.Errorf("connectome: writing header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("connectome: writing payload: %w", err)
	}
	return nil
}

// Decode reads a snapshot from the binary container on r, validating magic,
// version, and checksum before decoding the payload.
func Decode(r io.Reader) (*Snapshot, error) {
	hd, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	var pr io.Reader = r
	if hd.Compressed() {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("connectome: reading compressed payload: %w", err)
		}
		defer gzr.Close()
		pr = gzr
	}
	payload := make([]byte, hd.Size)
	if _, err := io.ReadFull(pr, payload); err != nil {
		return nil, fmt.Errorf("connectome: reading payload: %w", err)
	}
	if ck := Checksum(payload); ck != hd.Checksum {
		return nil, fmt.Errorf("%w: stored %#x, computed %#x", ErrChecksumMismatch, hd.Checksum, ck)
	}
	sn := &Snapshot{}
	if err := json.Unmarshal(payload, sn); err != nil {
		return nil, fmt.Errorf("connectome: decoding payload: %w", err)
	}
	return sn, nil
}

// Save writes the snapshot to the named file, compressed by default.
func (sn *Snapshot) Save(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	return sn.Encode(fp, true)
}

// Open reads a snapshot from the named file.
func Open(filename string) (*Snapshot, error) {
	fp, err := os.Open(filename)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	defer fp.Close()
	return Decode(fp)
}
