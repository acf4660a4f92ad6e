package service

import "crypto/sha256"

// ContentKeySize is the AES-128 key length used for HLS segment encryption.
const ContentKeySize = 16

// KeyService derives the per-video content encryption key. Keys are never
// stored: any instance recomputes the same 16 bytes from the shared secret
// and the video id, so key serving needs no state either.
type KeyService struct {
	Secret string
}

// DeriveKey returns the first 16 bytes of SHA-256(secret ":" videoID).
// Deterministic by construction; the key endpoint that exposes it sits
// behind the same gate as the segments it decrypts.
func (s *KeyService) DeriveKey(videoID string) []byte {
	sum := sha256.Sum256([]byte(s.Secret + ":" + videoID))
	return sum[:ContentKeySize]
}
