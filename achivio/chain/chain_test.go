package chain

import (
	"errors"
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	tests := []struct {
		name   string
		height uint64
		want   uint64
	}{
		{name: "genesis", height: 0, want: 0},
		{name: "last block of day zero", height: 143, want: 0},
		{name: "first block of day one", height: 144, want: 1},
		{name: "mid second day", height: 300, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayOf(tt.height); got != tt.want {
				t.Errorf("DayOf(%d) = %d, want %d", tt.height, got, tt.want)
			}
		})
	}
}

func TestSimClock(t *testing.T) {
	c := NewSimClock(10)
	if got := c.Height(); got != 10 {
		t.Fatalf("Height() = %d, want 10", got)
	}
	c.Advance(5)
	if got := c.Height(); got != 15 {
		t.Errorf("after Advance(5): Height() = %d, want 15", got)
	}
	c.AdvanceDays(2)
	if got := c.Height(); got != 15+2*BlocksPerDay {
		t.Errorf("after AdvanceDays(2): Height() = %d, want %d", got, 15+2*BlocksPerDay)
	}
}

func TestIntervalClock(t *testing.T) {
	genesis := time.Now().Add(-100 * time.Minute)
	c := NewIntervalClock(genesis, 10*time.Minute, 5)
	got := c.Height()
	if got < 15 || got > 16 {
		t.Errorf("Height() = %d, want ~15", got)
	}
}

func TestValidPrincipal(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		wantErr bool
	}{
		{name: "plain user", p: "alice", wantErr: false},
		{name: "empty", p: "", wantErr: true},
		{name: "contract principal", p: ContractPrincipal("achiv-token"), wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidPrincipal(tt.p); (err != nil) != tt.wantErr {
				t.Errorf("ValidPrincipal(%q) error = %v, wantErr %v", tt.p, err, tt.wantErr)
			}
		})
	}
}

func TestContractPrincipal(t *testing.T) {
	p := ContractPrincipal("task-tracker")
	if !p.IsContract() {
		t.Errorf("%q should be a contract principal", p)
	}
	if Principal("alice").IsContract() {
		t.Error("plain user should not be a contract principal")
	}
}

func TestErrorIdentity(t *testing.T) {
	sentinel := NewError("achiv-token", 102, "insufficient-balance")
	var wrapped error = sentinel
	if !errors.Is(wrapped, sentinel) {
		t.Error("sentinel should match itself through errors.Is")
	}
	if CodeOf(wrapped) != 102 {
		t.Errorf("CodeOf() = %d, want 102", CodeOf(wrapped))
	}
	if KindOf(wrapped) != "insufficient-balance" {
		t.Errorf("KindOf() = %q, want insufficient-balance", KindOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != 0 {
		t.Error("CodeOf(plain error) should be 0")
	}
}

func TestEventBufferDrain(t *testing.T) {
	b := NewEventBuffer()
	b.Emit(Event{Contract: "achiv-token", Kind: "transfer"})
	b.Emit(Event{Contract: "task-tracker", Kind: "create-task"})
	got := b.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain() returned %d events, want 2", len(got))
	}
	if got[0].Kind != "transfer" || got[1].Kind != "create-task" {
		t.Errorf("Drain() order = %q,%q", got[0].Kind, got[1].Kind)
	}
	if len(b.Drain()) != 0 {
		t.Error("second Drain() should be empty")
	}
}
