package model

import "testing"

func TestStateManager_Lifecycle(t *testing.T) {
	s := NewStateManager()
	if s.IsFitted() {
		t.Error("new StateManager reports fitted")
	}

	s.SetFitted()
	s.SetDimensions(3, 100)
	if !s.IsFitted() {
		t.Error("SetFitted did not mark the state")
	}
	if s.NFeatures != 3 || s.NSamples != 100 {
		t.Errorf("dimensions = (%d, %d), want (3, 100)", s.NFeatures, s.NSamples)
	}

	s.Reset()
	if s.IsFitted() || s.NFeatures != 0 || s.NSamples != 0 {
		t.Error("Reset did not clear the state")
	}
}
