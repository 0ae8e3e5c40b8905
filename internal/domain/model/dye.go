package model

import (
	"strings"
)

// Dye names one fluorescence channel, usually after its column header.
type Dye string

// NoSignal is the dominant-dye entry of a spot whose four intensities are all zero.
const NoSignal = -1

// Assignment holds, per spot, the index of the dominant dye or NoSignal.
type Assignment []int

// NoSignalCount returns the number of no-signal spots.
func (a Assignment) NoSignalCount() int {
	n := 0
	for _, d := range a {
		if d == NoSignal {
			n++
		}
	}
	return n
}

// DyeBaseMap assigns one base to each of the four dyes.
// Bases[i] is the base called when Dyes[i] is dominant.
type DyeBaseMap struct {
	Dyes  [NumDyes]Dye
	Bases [NumDyes]Base
}

// IdentityMap maps the dyes, in order, to A, C, G, T.
func IdentityMap(dyes [NumDyes]Dye) DyeBaseMap {
	return DyeBaseMap{Dyes: dyes, Bases: bases}
}

// PermutedMap maps dye i to the base with index perm[i].
func PermutedMap(dyes [NumDyes]Dye, perm [NumDyes]int) DyeBaseMap {
	m := DyeBaseMap{Dyes: dyes}
	for i, p := range perm {
		m.Bases[i] = bases[p]
	}
	return m
}

// Base returns the base mapped to the dye with index dye.
func (m DyeBaseMap) Base(dye int) (Base, bool) {
	if dye < 0 || dye >= NumDyes {
		return 0, false
	}
	return m.Bases[dye], true
}

// BaseFor returns the base mapped to the named dye.
func (m DyeBaseMap) BaseFor(d Dye) (Base, bool) {
	for i, name := range m.Dyes {
		if name == d {
			return m.Bases[i], true
		}
	}
	return 0, false
}

// IsBijection reports whether every callable base appears exactly once.
func (m DyeBaseMap) IsBijection() bool {
	var seen [NumDyes]bool
	for _, b := range m.Bases {
		idx := strings.IndexByte("ACGT", byte(b))
		if idx < 0 || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Pairs returns dye name to base letter, convenient for serialization.
func (m DyeBaseMap) Pairs() map[string]string {
	out := make(map[string]string, NumDyes)
	for i, d := range m.Dyes {
		out[string(d)] = m.Bases[i].String()
	}
	return out
}

// String renders the map in dye order, e.g. {Cy3: A, Cy5: C, ...}.
func (m DyeBaseMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, d := range m.Dyes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(d))
		sb.WriteString(": ")
		sb.WriteByte(byte(m.Bases[i]))
	}
	sb.WriteByte('}')
	return sb.String()
}
