/*
 * bits.go, part of zonerdf.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package xtc

import "errors"

// firstIdx is the first useful index in magicInts.
const firstIdx = 9

// magicInts are the sizes used for the "small" deltas between consecutive atoms.
// Each is roughly 2^(1/3) times the previous one, so 3 of them take about one more bit.
var magicInts = [...]int{
	0, 0, 0, 0, 0, 0, 0, 0, 0,
	8, 10, 12, 16, 20, 25, 32, 40, 50, 64,
	80, 101, 128, 161, 203, 256, 322, 406, 512, 645,
	812, 1024, 1290, 1625, 2048, 2580, 3250, 4096, 5060, 6501,
	8192, 10321, 13003, 16384, 20642, 26007, 32768, 41285, 52015, 65536,
	82570, 104031, 131072, 165140, 208063, 262144, 330280, 416127, 524287, 660561,
	832255, 1048576, 1321122, 1664510, 2097152, 2642245, 3329021, 4194304, 5284491, 6658042,
	8388607, 10568983, 13316085, 16777216,
}

var errShortBuffer = errors.New("compressed coordinate block ended prematurely")

// bitReader reads big-endian (most significant bit first) bit fields
// from the compressed coordinate block of an xtc frame.
type bitReader struct {
	data     []byte
	cnt      int    //next byte to read
	lastBits uint   //number of bits still unread in lastByte
	lastByte uint32 //bits read from data but not yet consumed
	err      error
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (b *bitReader) nextByte() uint32 {
	if b.cnt >= len(b.data) {
		b.err = errShortBuffer
		return 0
	}
	r := uint32(b.data[b.cnt])
	b.cnt++
	return r
}

// bits returns the next nbits (at most 32) bits as an integer.
func (b *bitReader) bits(nbits int) int {
	mask := uint64(1)<<uint(nbits) - 1
	var num uint64
	for nbits >= 8 {
		b.lastByte = (b.lastByte << 8) | b.nextByte()
		num |= uint64(b.lastByte>>b.lastBits) << uint(nbits-8)
		nbits -= 8
	}
	if nbits > 0 {
		if int(b.lastBits) < nbits {
			b.lastBits += 8
			b.lastByte = (b.lastByte << 8) | b.nextByte()
		}
		b.lastBits -= uint(nbits)
		num |= uint64(b.lastByte>>b.lastBits) & (uint64(1)<<uint(nbits) - 1)
	}
	return int(num & mask)
}

// ints decodes 3 integers packed together in nbits bits, the ith integer being
// smaller than sizes[i]. The integers are the "digits" of a big number in the
// mixed base given by sizes, stored as little-endian bytes.
func (b *bitReader) ints(nbits int, sizes [3]int, nums *[3]int) {
	var bytes [32]int
	nbytes := 0
	for nbits > 8 {
		bytes[nbytes] = b.bits(8)
		nbytes++
		nbits -= 8
	}
	if nbits > 0 {
		bytes[nbytes] = b.bits(nbits)
		nbytes++
	}
	for i := 2; i > 0; i-- {
		num := 0
		for j := nbytes - 1; j >= 0; j-- {
			num = (num << 8) | bytes[j]
			p := num / sizes[i]
			bytes[j] = p
			num = num - p*sizes[i]
		}
		nums[i] = num
	}
	nums[0] = bytes[0] | (bytes[1] << 8) | (bytes[2] << 16) | (bytes[3] << 24)
}

// sizeOfInt returns the number of bits needed to store any integer
// from 0 to size-1.
func sizeOfInt(size int) int {
	num := uint64(1)
	nbits := 0
	for uint64(size) >= num && nbits < 32 {
		nbits++
		num <<= 1
	}
	return nbits
}

// sizeOfInts returns the number of bits needed to store 3 integers, each
// smaller than the corresponding element of sizes, packed as by ints.
func sizeOfInts(sizes [3]int) int {
	var bytes [32]uint
	nbytes := 1
	bytes[0] = 1
	for i := 0; i < 3; i++ {
		var tmp uint
		bytecnt := 0
		for bytecnt = 0; bytecnt < nbytes; bytecnt++ {
			tmp = bytes[bytecnt]*uint(sizes[i]) + tmp
			bytes[bytecnt] = tmp & 0xff
			tmp >>= 8
		}
		for tmp != 0 {
			bytes[bytecnt] = tmp & 0xff
			bytecnt++
			tmp >>= 8
		}
		nbytes = bytecnt
	}
	num := uint(1)
	nbits := 0
	nbytes--
	for bytes[nbytes] >= num {
		nbits++
		num *= 2
	}
	return nbits + nbytes*8
}
