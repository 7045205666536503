package debug

import "testing"

func TestAssert(t *testing.T) {
	Assert(true, "never fires")

	defer func() {
		r := recover()
		if Enabled && r == nil {
			t.Error("Assert(false) should panic when enabled")
		}
		if !Enabled && r != nil {
			t.Errorf("Assert(false) panicked while disabled: %v", r)
		}
	}()
	Assert(false, "value %d", 42)
}
