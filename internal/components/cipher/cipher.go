package cipher

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	_ "embed"
)

//go:embed gateway.pem
var gatewayPublicKey []byte

// ErrEncoding is returned for plaintext that is not valid UTF-8.
var ErrEncoding = errors.New("cipher: plaintext is not valid utf-8")

// Cipher encrypts passwords for the single sign-on gateway.
type Cipher struct {
	key *rsa.PublicKey
}

// New parses a PEM encoded SPKI ("PUBLIC KEY") RSA key.
func New(pemKey []byte) (Cipher, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return Cipher{}, fmt.Errorf("cipher: no pem block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return Cipher{}, fmt.Errorf("cipher: parse public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return Cipher{}, fmt.Errorf("cipher: expected an rsa key, got %T", parsed)
	}
	return Cipher{key: key}, nil
}

var gateway = sync.OnceValues(func() (Cipher, error) {
	return New(gatewayPublicKey)
})

// Gateway returns the cipher for the key the gateway login page ships with.
func Gateway() (Cipher, error) {
	return gateway()
}

// Encrypt returns the base64 PKCS#1 v1.5 ciphertext of the UTF-8 bytes of
// plaintext. Padding is random so two calls never return the same output.
func (c Cipher) Encrypt(plaintext string) (string, error) {
	if c.key == nil {
		return "", fmt.Errorf("cipher: no public key")
	}
	if !utf8.ValidString(plaintext) {
		return "", ErrEncoding
	}
	out, err := rsa.EncryptPKCS1v15(rand.Reader, c.key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("cipher: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out), nil
}
