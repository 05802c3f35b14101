package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

const (
	KyberPublicKeySize   = 800  // Kyber-512 public key size
	KyberPrivateKeySize  = 1632 // Kyber-512 private key size
	KyberCiphertextSize  = 768  // Kyber-512 ciphertext size
	KyberSharedSecretSize = 32  // Kyber-512 shared secret size
)

type KyberPrivateKey struct {
	privateKey []byte
}

type KyberPublicKey struct {
	publicKey []byte
}

// GenerateKyberKeyPair generates a new Kyber key pair (mock implementation)
func GenerateKyberKeyPair() (*KyberPrivateKey, *KyberPublicKey, error) {
	// Mock implementation - in production would use actual Kyber-512
	privateKey := make([]byte, KyberPrivateKeySize)
	publicKey := make([]byte, KyberPublicKeySize)
	
	if _, err := rand.Read(privateKey); err != nil {
		return nil, nil, fmt.Errorf("failed to generate Kyber private key: %w", err)
	}
	
	// Mock public key derivation
	hash := sha256.Sum256(privateKey)
	copy(publicKey, hash[:])
	
	return &KyberPrivateKey{privateKey: privateKey},
		&KyberPublicKey{publicKey: publicKey}, nil
}

// Encapsulate generates a shared secret and encapsulates it (mock implementation)
func (pub *KyberPublicKey) Encapsulate() ([]byte, []byte, error) {
	// Mock implementation - in production would use actual Kyber-512
	ciphertext := make([]byte, KyberCiphertextSize)
	sharedSecret := make([]byte, KyberSharedSecretSize)
	
	if _, err := rand.Read(ciphertext); err != nil {
		return nil, nil, fmt.Errorf("failed to generate ciphertext: %w", err)
	}
	
	if _, err := rand.Read(sharedSecret); err != nil {
		return nil, nil, fmt.Errorf("failed to generate shared secret: %w", err)
	}
	
	return ciphertext, sharedSecret, nil
}

// Decapsulate recovers the shared secret from the ciphertext (mock implementation)
func (priv *KyberPrivateKey) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != KyberCiphertextSize {
		return nil, errors.New("invalid ciphertext size")
	}
	
	// Mock implementation - in production would use actual Kyber-512
	sharedSecret := make([]byte, KyberSharedSecretSize)
	
	// Create deterministic shared secret based on private key and ciphertext
	hasher := sha256.New()
	hasher.Write(priv.privateKey)
	hasher.Write(ciphertext)
	hash := hasher.Sum(nil)
	
	copy(sharedSecret, hash[:KyberSharedSecretSize])
	
	return sharedSecret, nil
}

// Bytes returns the public key as bytes
func (pub *KyberPublicKey) Bytes() []byte {
	return pub.publicKey
}

// Bytes returns the private key as bytes
func (priv *KyberPrivateKey) Bytes() []byte {
	return priv.privateKey
}

// KyberPublicKeyFromBytes creates a public key from bytes
func KyberPublicKeyFromBytes(data []byte) (*KyberPublicKey, error) {
	if len(data) != KyberPublicKeySize {
		return nil, errors.New("invalid public key size")
	}
	
	publicKey := make([]byte, KyberPublicKeySize)
	copy(publicKey, data)
	
	return &KyberPublicKey{publicKey: publicKey}, nil
}

// KyberPrivateKeyFromBytes creates a private key from bytes
func KyberPrivateKeyFromBytes(data []byte) (*KyberPrivateKey, error) {
	if len(data) != KyberPrivateKeySize {
		return nil, errors.New("invalid private key size")
	}
	
	privateKey := make([]byte, KyberPrivateKeySize)
	copy(privateKey, data)
	
	return &KyberPrivateKey{privateKey: privateKey}, nil
}

// KyberDecapsulate performs KEM decapsulation given raw bytes (mock implementation)
func KyberDecapsulate(ciphertext, privateKeyBytes []byte) ([]byte, error) {
	if len(privateKeyBytes) != KyberPrivateKeySize {
		return nil, errors.New("invalid private key size")
	}
	if len(ciphertext) != KyberCiphertextSize {
		return nil, errors.New("invalid ciphertext size")
	}
	
	// Mock implementation
	sharedSecret := make([]byte, KyberSharedSecretSize)
	
	// Create deterministic shared secret based on private key and ciphertext
	hasher := sha256.New()
	hasher.Write(privateKeyBytes)
	hasher.Write(ciphertext)
	hash := hasher.Sum(nil)
	
	copy(sharedSecret, hash[:KyberSharedSecretSize])
	
	return sharedSecret, nil
}