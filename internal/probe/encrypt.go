package probe

import (
	"bytes"
	"context"
	"crypto/rand"
	"strconv"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/hamed0406/capprobe/internal/domain"
)

// EncryptProbe seals and opens a message with a fresh XChaCha20-Poly1305 key.
type EncryptProbe struct{}

func (p *EncryptProbe) Name() string { return "encrypt" }

func (p *EncryptProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fail("Crypto", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fail("Crypto", err)
	}

	msg := []byte("Hello, capability probes!")
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fail("Crypto", err)
	}
	sealed := aead.Seal(nil, nonce, msg, nil)
	opened, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return fail("Crypto", err)
	}
	if !bytes.Equal(opened, msg) {
		return domain.Failure("Crypto", "decrypted message differs"), nil
	}

	return ok(map[string]string{
		"message_length": strconv.Itoa(len(msg)),
		"sealed_length":  strconv.Itoa(len(sealed)),
		"match":          "true",
	})
}
