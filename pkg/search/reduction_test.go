package search

import "testing"

func TestLMRReductionBelowThresholdIsZero(t *testing.T) {
	if r := lmrReduction(2, 10); r != 0 {
		t.Errorf("lmrReduction(2, 10) = %d, want 0", r)
	}
	if r := lmrReduction(10, 1); r != 0 {
		t.Errorf("lmrReduction(10, 1) = %d, want 0", r)
	}
}

func TestLMRReductionGrowsWithDepthAndMoveIndex(t *testing.T) {
	small := lmrReduction(4, 4)
	large := lmrReduction(20, 40)
	if large < small {
		t.Errorf("lmrReduction(20, 40) = %d, want >= lmrReduction(4, 4) = %d", large, small)
	}
}

func TestLMRReductionClampsOutOfRangeInputs(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("lmrReduction panicked on out-of-range input: %v", r)
		}
	}()
	lmrReduction(1000, 1000)
}
