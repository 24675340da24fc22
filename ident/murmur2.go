// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ident computes the content-addressed type_id identities used
// throughout the compiler for cache keying: a from-scratch port of the
// public-domain 32-bit MurmurHash2 algorithm, plus the node/signature/
// graph hash folds built on top of it.
//
// MurmurHash2 has no maintained Go module in the wider ecosystem that
// reproduces this exact 32-bit, seeded variant byte-for-byte (the
// handful of published Go ports target MurmurHash3 or a different seed
// convention), and the cache keys this package produces must match the
// reference engine's values bit for bit, so the algorithm is
// implemented directly against the standard library here.
package ident

import "github.com/htrie/vin-sub006/ir"

// seed is the fixed MurmurHash2 seed used throughout the reference
// engine for type_id computation.
const seed uint32 = 0x34322

const (
	m uint32 = 0x5bd1e995
	r uint32 = 24
)

// Murmur2 computes the 32-bit MurmurHash2 of data with the given seed,
// matching the public-domain reference implementation
// (Common/Utility/MurmurHash2.h) byte for byte on little-endian input.
func Murmur2(data []byte, seed uint32) uint32 {
	h := seed ^ uint32(len(data))

	for len(data) >= 4 {
		k := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24

		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k

		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return h
}

// HashName hashes s with the fixed compiler-wide seed, used to derive a
// TypeId from a node type name or synthesized dynamic-parameter name.
func HashName(s string) ir.TypeId {
	return ir.TypeId(Murmur2([]byte(s), seed))
}

// Merge combines two TypeIds into one, reproducing the reference
// engine's merge(a,b) = MurmurHash2([a,b]) fold used to build a node's
// or graph's identity out of its parts.
func Merge(a, b ir.TypeId) ir.TypeId {
	buf := [8]byte{
		byte(a), byte(a >> 8), byte(a >> 16), byte(a >> 24),
		byte(b), byte(b >> 8), byte(b >> 16), byte(b >> 24),
	}
	return ir.TypeId(Murmur2(buf[:], seed))
}

// Fold reduces a sequence of TypeIds to one by left-folding Merge across
// them in order, so callers can build a node's or graph's identity out
// of an ordered list of parts (a NodeType id plus each parameter's
// content hash; a graph's header fields plus each head's hash) without
// this package needing to know what a node or graph is. An empty parts
// list folds to 0; per spec.md §3.4, callers that require a non-zero
// result seed parts with a non-zero sentinel.
func Fold(parts ...ir.TypeId) ir.TypeId {
	var acc ir.TypeId
	for _, p := range parts {
		acc = Merge(acc, p)
	}
	return acc
}
