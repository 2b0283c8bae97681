// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Coalesces(t *testing.T) {
	n := newNotifier()
	signal, cancel, ok := n.subscribe()
	require.True(t, ok)
	defer cancel()

	n.notify()
	n.notify()
	n.notify()

	<-signal
	select {
	case <-signal:
		t.Fatal("burst of notifications should collapse into one signal")
	default:
	}
}

func TestNotifier_CancelStopsDelivery(t *testing.T) {
	n := newNotifier()
	signal, cancel, ok := n.subscribe()
	require.True(t, ok)

	cancel()
	cancel()
	n.notify()

	_, open := <-signal
	assert.False(t, open)
}

func TestNotifier_CloseEndsSubscriptions(t *testing.T) {
	n := newNotifier()
	s1, cancel1, _ := n.subscribe()
	s2, cancel2, _ := n.subscribe()

	n.close()
	cancel1()
	cancel2()

	_, open1 := <-s1
	_, open2 := <-s2
	assert.False(t, open1)
	assert.False(t, open2)

	_, _, ok := n.subscribe()
	assert.False(t, ok)
}
