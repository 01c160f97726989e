package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidKeySize = errors.New("invalid key size")
	ErrEncryption     = errors.New("encryption failed")
	ErrDecryption     = errors.New("decryption failed")
)

// Encryptor seals secrets stored at rest, such as OAuth tokens.
type Encryptor interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
	EncryptString(plain string) (string, error)
	DecryptString(sealed string) (string, error)
}

// NewEncryptor creates an XChaCha20-Poly1305 encryptor from a 32 byte key.
func NewEncryptor(key []byte) (Encryptor, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, ErrInvalidKeySize
	}
	return &xchachaEncryptor{aead: aead}, nil
}

// NewEncryptorFromHex is NewEncryptor for keys kept hex encoded in config.
func NewEncryptorFromHex(hexKey string) (Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrInvalidKeySize
	}
	return NewEncryptor(key)
}

type xchachaEncryptor struct {
	aead cipher.AEAD
}

func (x *xchachaEncryptor) Encrypt(data []byte) ([]byte, error) {
	nonce := make([]byte, x.aead.NonceSize(), x.aead.NonceSize()+len(data)+x.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, ErrEncryption
	}

	return x.aead.Seal(nonce, nonce, data, nil), nil
}

func (x *xchachaEncryptor) Decrypt(data []byte) ([]byte, error) {
	nonceSize := x.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrDecryption
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := x.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryption
	}

	return plaintext, nil
}

func (x *xchachaEncryptor) EncryptString(plain string) (string, error) {
	sealed, err := x.Encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (x *xchachaEncryptor) DecryptString(sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecryption
	}
	plain, err := x.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
