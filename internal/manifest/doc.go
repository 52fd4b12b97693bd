// Package manifest builds the signed Farcaster manifest written to
// public/manifest.json of a generated frame.
//
// The account association is a JSON Farcaster Signature: a base64url header
// naming the account (fid) and its custody address, a base64url payload
// naming the app domain, and an EIP-191 signature over "header.payload" made
// with the custody key. The custody key is derived from the account's BIP-39
// seed phrase at m/44'/60'/0'/0/0.
//
// The seed phrase is only read inside Sign and never appears in errors.
package manifest
