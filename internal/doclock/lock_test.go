package doclock

import "testing"

func TestHeld(t *testing.T) {
	var l Lock
	if l.Held() {
		t.Fatal("new lock should not be held")
	}

	l.Lock()
	if !l.Held() {
		t.Error("write-locked lock should be held")
	}
	l.AssertHeld()
	l.Unlock()

	l.RLock()
	if !l.Held() {
		t.Error("read-locked lock should be held")
	}
	l.RUnlock()

	if l.Held() {
		t.Error("released lock should not be held")
	}
}

func TestNilAssertHeld(t *testing.T) {
	var l *Lock
	l.AssertHeld()
}
