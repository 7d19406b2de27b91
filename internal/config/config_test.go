package config

import "testing"

func TestBuiltinDefaults(t *testing.T) {
	d := Builtin()
	if d.IDRThreshold != 1.0 {
		t.Errorf("idr-threshold default %v, want 1.0 (report all peaks)", d.IDRThreshold)
	}
	if d.SoftIDRThreshold != 0.05 {
		t.Errorf("soft-idr-threshold default %v, want 0.05", d.SoftIDRThreshold)
	}
	if d.MaxIter != 100 {
		t.Errorf("max-iter default %d, want 100", d.MaxIter)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("IDR_MAX_ITER", "7")
	t.Setenv("IDR_SOFT_IDR_THRESHOLD", "0.10")
	d := Load()
	if d.MaxIter != 7 {
		t.Errorf("IDR_MAX_ITER ignored: got %d", d.MaxIter)
	}
	if d.SoftIDRThreshold != 0.10 {
		t.Errorf("IDR_SOFT_IDR_THRESHOLD ignored: got %v", d.SoftIDRThreshold)
	}
}
