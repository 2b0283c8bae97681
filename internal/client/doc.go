// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vault command-line application.
//
// It wires the key store, item store, encryption engine and vault
// repository into a single process lifecycle and exposes them through a
// cobra command tree.
package client
