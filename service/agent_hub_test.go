package service

import (
	"testing"
	"time"
)

func TestNotifyInboundNeverBlocks(t *testing.T) {
	hub := NewAgentHub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < agentFeedBacklog*4; i++ {
			hub.NotifyInbound("U1", "hello")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification delivery blocked the dispatch path")
	}
}
