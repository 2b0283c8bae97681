// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/awnumar/memguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	err  error
	args []string
}

func (s *stubClient) Run(_ context.Context, args []string) error {
	s.args = args
	return s.err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{name: "success", wantCode: 0},
		{name: "failure", err: errors.New("boom"), wantCode: 1, wantStderr: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &stubClient{err: tt.err}
			var stderr bytes.Buffer

			code := run(context.Background(), cli, []string{"list"}, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, []string{"list"}, cli.args)
			if tt.wantStderr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRun_PurgesKeyMaterial(t *testing.T) {
	for _, failing := range []bool{false, true} {
		enclave := memguard.NewEnclave([]byte("0123456789abcdef0123456789abcdef"))

		cli := &stubClient{}
		if failing {
			cli.err = errors.New("boom")
		}
		run(context.Background(), cli, nil, &bytes.Buffer{})

		buf, err := enclave.Open()
		if err == nil {
			buf.Destroy()
		}
		require.Error(t, err, "enclave still opens after run (failing=%v)", failing)
	}
}
