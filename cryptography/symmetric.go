// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cryptography

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/bitmark-inc/exchanged/fault"
)

// secret sizes in bytes
const (
	KeySize    = 16
	IVSize     = aes.BlockSize
	MACKeySize = 64
	MACSize    = sha256.Size
)

// RandomBytes - n bytes from the system random source
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); nil != err {
		return nil, err
	}
	return b, nil
}

// EncryptAES - AES-CBC with PKCS#7 padding
func EncryptAES(key []byte, iv []byte, plaintext []byte) ([]byte, error) {
	if KeySize != len(key) {
		return nil, fault.ErrInvalidKeyLength
	}
	if IVSize != len(iv) {
		return nil, fault.ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if nil != err {
		return nil, err
	}

	padded := pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// DecryptAES - reverse of EncryptAES
func DecryptAES(key []byte, iv []byte, ciphertext []byte) ([]byte, error) {
	if KeySize != len(key) {
		return nil, fault.ErrInvalidKeyLength
	}
	if IVSize != len(iv) {
		return nil, fault.ErrInvalidKeyLength
	}
	if 0 == len(ciphertext) || 0 != len(ciphertext)%aes.BlockSize {
		return nil, fault.ErrCiphertextLength
	}
	block, err := aes.NewCipher(key)
	if nil != err {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return unpad(plaintext)
}

// Sign - HMAC-SHA256 of data
func Sign(key []byte, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Verify - constant time comparison of an HMAC
func Verify(key []byte, data []byte, signature []byte) bool {
	return hmac.Equal(Sign(key, data), signature)
}

// always adds between 1 and a full block of padding
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	if 0 == len(data) {
		return nil, fault.ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if 0 == n || n > aes.BlockSize || n > len(data) {
		return nil, fault.ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fault.ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
