// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connectome

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goki/ki/indent"
)

// WriteSummaryJSON writes a human-oriented summary of the snapshot (counts,
// burst counter, metadata) as indented JSON, without the store payload.
// Used by inspection tooling.
func (sn *Snapshot) WriteSummaryJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Source\": %q,\n", sn.Meta.Source)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Session\": %q,\n", sn.Meta.Session)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Created\": %q,\n", sn.Meta.Created.Format("2006-01-02 15:04:05"))))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Description\": %q,\n", sn.Meta.Description)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Burst\": %d,\n", sn.Burst)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Neurons\": %d,\n", sn.Neurons.N)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Synapses\": %d,\n", sn.Synapses.N)))
	w.Write(indent.TabBytes(depth))
	na := len(sn.Areas)
	if na == 0 {
		w.Write([]byte("\"Areas\": null,\n"))
	} else {
		w.Write([]byte("\"Areas\": [\n"))
		depth++
		for ai, ar := range sn.Areas {
			w.Write(indent.TabBytes(depth))
			vox, _ := json.Marshal(ar.Shp.Shp)
			w.Write([]byte(fmt.Sprintf("{\"Name\": %q, \"Voxels\": %s, \"Neurons\": %d}", ar.Nm, vox, ar.NNeurons)))
			if ai == na-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("],\n"))
	}
	w.Write(indent.TabBytes(depth))
	nt := len(sn.Meta.Tags)
	if nt == 0 {
		w.Write([]byte("\"Tags\": null\n"))
	} else {
		w.Write([]byte("\"Tags\": [\n"))
		depth++
		for ti, tag := range sn.Meta.Tags {
			w.Write(indent.TabBytes(depth))
			w.Write([]byte(fmt.Sprintf("%q", tag)))
			if ti == nt-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}
