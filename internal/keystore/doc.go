// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keystore owns the lifecycle of the vault master key.
//
// A [Backend] is the secure key store capability: it generates a key inside
// its own boundary, resolves it by id and, for maintenance only, deletes it.
// Three backends ship with the package:
//
//   - [MemoryBackend]: process-local memguard enclaves. Keys die with the
//     process; meant for tests and throw-away sessions.
//   - [KeyringBackend]: the OS credential store through 99designs/keyring
//     (macOS Keychain, Secret Service, KWallet, WinCred, keyctl, or an
//     encrypted file).
//   - [WrappedFileBackend]: a key file wrapped with an Argon2id-derived KEK.
//
// None of them is hardware-backed. Every backend reports its
// [SecurityLevel] so callers can surface the downgrade.
//
// [Provider] sits on top of a Backend and guarantees that exactly one key
// is ever created under its identifier, even when many goroutines ask for
// it at the same time on first use.
package keystore
