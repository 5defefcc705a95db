package hist

import (
	"reflect"
	"testing"
)

func TestSparseIncDec(t *testing.T) {
	s := NewSparse()
	s.Inc(3)
	s.Inc(3)
	s.Inc(7)
	if truth := (Sparse{3: 2, 7: 1}); !reflect.DeepEqual(s, truth) {
		t.Errorf("Expecting %v, got %v", truth, s)
	}

	s.Dec(3)
	if s.At(3) != 1 {
		t.Errorf("Expecting s.At(3) = 1, got %d", s.At(3))
	}

	s.Dec(7)
	if _, ok := s[7]; ok {
		t.Errorf("Expecting topic 7 removed when count reaches 0, got %v", s)
	}
	if s.At(7) != 0 {
		t.Errorf("Expecting absent topic to read 0, got %d", s.At(7))
	}
	if s.Len() != 1 {
		t.Errorf("Expecting Len 1, got %d", s.Len())
	}
}

func TestSparseDecAbsent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expecting panic from Dec on absent topic")
		}
	}()
	NewSparse().Dec(0)
}

func TestSparseClone(t *testing.T) {
	s := Sparse{1: 4}
	c := s.Clone().(Sparse)
	c.Inc(1)
	if s.At(1) != 4 {
		t.Errorf("Clone aliases the original: s = %v", s)
	}
}
