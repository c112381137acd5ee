package antlr4

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// dfaCacheState is the CBOR wire shape of one DfaState and its edge table.
// StateNumber doubles as the array index on load, so edges can be
// resolved to pointers in a single pass.
type dfaCacheState struct {
	IsAcceptState bool  `cbor:"a"`
	Prediction    int   `cbor:"p"`
	Edges         []int `cbor:"e"` // -1 for an untaken slot, else target StateNumber
}

type dfaCacheMode struct {
	S0     int             `cbor:"s"`
	States []dfaCacheState `cbor:"d"`
}

type dfaCacheFile struct {
	Checksum []byte         `cbor:"c"` // blake2b-256 of the CBOR encoding of Modes
	Modes    []dfaCacheMode `cbor:"m"`
}

// SaveDfaCache snapshots every mode's Dfa (state count, accept/prediction
// flags, and the dense edge window) to path, so a later process can warm
// start instead of rediscovering the same DFA states from scratch. Config
// sets and lexer action executors are not persisted, and LoadDfaCache
// does not restore them.
func SaveDfaCache(path string, dfas []*Dfa) error {
	body := make([]dfaCacheMode, len(dfas))
	for i, d := range dfas {
		body[i] = snapshotDfa(d)
	}
	payload, err := cbor.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal dfa cache: %w", err)
	}
	sum := blake2b.Sum256(payload)

	file := dfaCacheFile{Checksum: sum[:], Modes: body}
	out, err := cbor.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal dfa cache: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

func snapshotDfa(d *Dfa) dfaCacheMode {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.size()
	states := make([]dfaCacheState, n)
	s0 := -1
	for _, bucket := range d.states {
		for _, s := range bucket {
			edges := make([]int, len(s.edges))
			for i, e := range s.edges {
				if e == nil {
					edges[i] = -1
				} else {
					edges[i] = e.StateNumber
				}
			}
			states[s.StateNumber] = dfaCacheState{
				IsAcceptState: s.IsAcceptState,
				Prediction:    s.Prediction,
				Edges:         edges,
			}
		}
	}
	if d.s0 != nil {
		s0 = d.s0.StateNumber
	}
	return dfaCacheMode{S0: s0, States: states}
}

// LoadDfaCache reads a cache written by SaveDfaCache and verifies its
// checksum, returning (nil, nil) if path does not exist so callers can
// treat a missing cache as "start cold" rather than an error.
//
// The returned Dfas are replay shells: their DfaStates carry no Configs
// and no lexer action executors, and none of them is entered in the Dfa's
// state table, so a later AddState numbers new states from 0 again. A
// simulator running on a loaded Dfa follows only the edges already cached;
// on an edge miss, computeTargetState reads the shell's nil config set and
// panics. cmd/fuzzd is the caller that loads Dfas through this function.
func LoadDfaCache(path string, numModes int) ([]*Dfa, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dfa cache: %w", err)
	}

	var file dfaCacheFile
	if err := cbor.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("unmarshal dfa cache: %w", err)
	}
	payload, err := cbor.Marshal(file.Modes)
	if err != nil {
		return nil, fmt.Errorf("re-marshal dfa cache body: %w", err)
	}
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(sum[:], file.Checksum) {
		return nil, fmt.Errorf("dfa cache at %s failed its integrity checksum", path)
	}
	if len(file.Modes) != numModes {
		return nil, fmt.Errorf("dfa cache has %d modes, atn has %d", len(file.Modes), numModes)
	}

	dfas := make([]*Dfa, numModes)
	for mode, m := range file.Modes {
		d := NewDfa(mode)
		shells := make([]*DfaState, len(m.States))
		for i, cs := range m.States {
			shells[i] = &DfaState{
				StateNumber:   i,
				IsAcceptState: cs.IsAcceptState,
				Prediction:    cs.Prediction,
			}
		}
		for i, cs := range m.States {
			edges := make([]*DfaState, len(cs.Edges))
			for j, target := range cs.Edges {
				if target >= 0 {
					edges[j] = shells[target]
				}
			}
			shells[i].edges = edges
		}
		if m.S0 >= 0 {
			d.s0 = shells[m.S0]
		}
		dfas[mode] = d
	}
	return dfas, nil
}
