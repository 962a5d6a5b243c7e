// package fuzzy implements locality-sensitive string matching for
// resolving noisy (title, artist) pairs against external search hits.
//
// The digest follows the nilsimsa scheme: every trigram of the input is
// hashed through a byte permutation into a 256-bucket accumulator, and the
// digest sets the bits of buckets that exceed the mean. Similar strings
// share most trigrams and therefore most bits.
package fuzzy

import "math/bits"

// DigestSize is the fingerprint width in bytes (256 bits).
const DigestSize = 32

// Digest is a fixed-width locality-sensitive fingerprint.
type Digest [DigestSize]byte

// tran is a permutation of the byte values used to mix trigram characters.
// 53 is coprime with 256, so i*53+1 visits every byte value exactly once.
var tran [256]byte

func init() {
	for i := 0; i < 256; i++ {
		tran[i] = byte(i*53 + 1)
	}
}

func tran3(a, b, c, n byte) byte {
	return (tran[(a+n)&0xff] ^ tran[b]*(n+n+1)) + tran[c^tran[n]]
}

// HashString computes the digest of s.
func HashString(s string) Digest {
	return HashBytes([]byte(s))
}

// HashBytes computes the digest of data.
//
// Each incoming byte is combined with a window of the four preceding bytes
// into eight trigram buckets, mirroring the reference nilsimsa
// accumulation pattern. Inputs shorter than three bytes produce the zero
// digest.
func HashBytes(data []byte) Digest {
	var acc [256]uint
	var total uint

	bump := func(i byte) {
		acc[i]++
		total++
	}

	// w holds the previous four bytes, w[0] most recent.
	var w [4]byte
	seen := 0

	for _, ch := range data {
		if seen >= 2 {
			bump(tran3(ch, w[0], w[1], 0))
		}
		if seen >= 3 {
			bump(tran3(ch, w[0], w[2], 1))
			bump(tran3(ch, w[1], w[2], 2))
		}
		if seen >= 4 {
			bump(tran3(ch, w[0], w[3], 3))
			bump(tran3(ch, w[1], w[3], 4))
			bump(tran3(ch, w[2], w[3], 5))
			bump(tran3(w[3], w[0], ch, 6))
			bump(tran3(w[3], w[2], ch, 7))
		}

		w[3], w[2], w[1], w[0] = w[2], w[1], w[0], ch
		seen++
	}

	var digest Digest
	if total == 0 {
		return digest
	}

	threshold := total / 256
	for i := 0; i < 256; i++ {
		if acc[i] > threshold {
			digest[i/8] |= 1 << (uint(i) % 8)
		}
	}

	return digest
}

// Compare scores the similarity of two digests in the range [-128, 128],
// where 128 means identical. The score is 128 minus the number of
// differing bits.
func Compare(a, b Digest) int {
	diff := 0
	for i := 0; i < DigestSize; i++ {
		diff += bits.OnesCount8(a[i] ^ b[i])
	}
	return 128 - diff
}
