package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

// stateKeyContext separates the state-sealing key from the JWT signing key
// derived from the same secret.
const stateKeyContext = "magicshop oauth state v1"

// StateLifetime is how long a sign-in may take between redirect and
// callback.
const StateLifetime = 10 * time.Minute

// stateSize is the number of random bytes in an OAuth state value.
const stateSize = 24

// StateSealer issues OAuth state values and seals each into an opaque
// cookie value, so the callback can verify the state without server-side
// storage.
type StateSealer struct {
	key      [32]byte
	lifetime time.Duration
	now      func() time.Time
	rand     io.Reader
}

// NewStateSealer derives the sealing key from secret. States expire after
// lifetime.
func NewStateSealer(secret string, lifetime time.Duration) *StateSealer {
	return &StateSealer{
		key:      sha256.Sum256([]byte(stateKeyContext + "\x00" + secret)),
		lifetime: lifetime,
		now:      time.Now,
		rand:     rand.Reader,
	}
}

// Issue returns a new random state and the sealed cookie value that
// proves it.
func (s *StateSealer) Issue() (state, sealed string, err error) {
	raw := make([]byte, stateSize)
	if _, err := io.ReadFull(s.rand, raw); err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}

	// message: 8-byte big-endian expiry (unix seconds) || state bytes
	msg := make([]byte, 8, 8+stateSize)
	binary.BigEndian.PutUint64(msg, uint64(s.now().Add(s.lifetime).Unix()))
	msg = append(msg, raw...)

	var nonce [24]byte
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return "", "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], msg, &nonce, &s.key)

	return base64.RawURLEncoding.EncodeToString(raw), base64.RawURLEncoding.EncodeToString(box), nil
}

// Verify checks that sealed was issued by this sealer for state and has
// not expired.
func (s *StateSealer) Verify(state, sealed string) error {
	if state == "" || sealed == "" {
		return ErrInvalidState
	}

	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(box) < 24+secretbox.Overhead {
		return ErrInvalidState
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])

	msg, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok || len(msg) != 8+stateSize {
		return ErrInvalidState
	}

	expires := time.Unix(int64(binary.BigEndian.Uint64(msg[:8])), 0)
	if s.now().After(expires) {
		return fmt.Errorf("%w: expired", ErrInvalidState)
	}

	want := base64.RawURLEncoding.EncodeToString(msg[8:])
	if subtle.ConstantTimeCompare([]byte(want), []byte(state)) != 1 {
		return ErrInvalidState
	}
	return nil
}
