package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const ivSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('G')

// DataKeySize is the size in bytes of a data encryption key.
const DataKeySize = 32

var ErrMalformed = errors.New("vault: malformed ciphertext")

type SymmetricCipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

type Symmetric struct {
	aesgcm cipher.AEAD
}

func NewSymmetric(key []byte) (SymmetricCipher, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// ParseDataKey decodes a base64 data key and checks its size.
func ParseDataKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad data key: %w", err)
	}
	if len(key) != DataKeySize {
		return nil, fmt.Errorf("bad data key: expected %d bytes, got %d", DataKeySize, len(key))
	}
	return key, nil
}

// GenerateDataKey returns a new random base64 encoded data key.
func GenerateDataKey() (string, error) {
	key, err := RandomBytes(DataKeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(key), nil
}

func (s Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < 1+tagSize+ivSize || packedText[0] != versionMagic {
		return nil, ErrMalformed
	}

	cipherText, iv := UnpackCipherData(packedText)

	return s.aesgcm.Open(nil, iv, cipherText, aad)
}

func RandomNonce() ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	return RandomBytes(ivSize)
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

func (s Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomNonce()
	if err != nil {
		return nil, err
	}

	cipherTextWithTag := s.aesgcm.Seal(nil, nonce, plainText, aad)
	return PackCipherData(cipherTextWithTag, nonce), nil
}

// PackCipherData lays out "magic | tag | iv | ciphertext".
func PackCipherData(cipherTextWithTag []byte, iv []byte) []byte {
	iv = iv[:ivSize]

	tagStart := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStart:]
	cipherText := cipherTextWithTag[:tagStart]

	data := make([]byte, 0, 1+tagSize+ivSize+len(cipherText))
	data = append(data, versionMagic)
	data = append(data, tag...)
	data = append(data, iv...)
	data = append(data, cipherText...)

	return data
}

// UnpackCipherData reverses PackCipherData, returning the ciphertext with
// the tag appended (as crypto/cipher expects) and the nonce.
func UnpackCipherData(packedText []byte) ([]byte, []byte) {
	index := 1

	tag := packedText[index : index+tagSize]
	index += tagSize

	iv := packedText[index : index+ivSize]
	index += ivSize

	cipherText := make([]byte, 0, len(packedText)-index+tagSize)
	cipherText = append(cipherText, packedText[index:]...)
	cipherText = append(cipherText, tag...)

	return cipherText, iv
}
