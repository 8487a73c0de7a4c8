// Package vault encrypts sensitive column values at rest.
//
// Values are sealed with AES-256-GCM. The packed format is a version magic
// byte followed by the GCM tag, the nonce and the ciphertext. Callers pass the
// owning row identifier as associated data so a sealed value cannot be moved
// between rows.
//
//	cipher, err := vault.NewSymmetric(dataKey)
//	if err != nil {
//	    return err
//	}
//	sealed, err := cipher.Encrypt([]byte(provider.ID), []byte(apiKey))
//	plain, err := cipher.Decrypt([]byte(provider.ID), sealed)
package vault
