package optional

import "testing"

func TestNonEmpty(t *testing.T) {
	t.Parallel()

	if NonEmpty[string](nil).IsPresent() {
		t.Error("nil slice should be absent")
	}
	if NonEmpty([]string{}).IsPresent() {
		t.Error("empty slice should be absent")
	}
	v, ok := NonEmpty([]string{"a"}).Get()
	if !ok || len(v) != 1 {
		t.Errorf("got %v, %v", v, ok)
	}
}

func TestNonBlank_AndPtr(t *testing.T) {
	t.Parallel()

	if NonBlank("").Ptr() != nil {
		t.Error("blank string should give nil pointer")
	}
	p := NonBlank("latim").Ptr()
	if p == nil || *p != "latim" {
		t.Errorf("unexpected pointer %v", p)
	}
}

func TestOrElse(t *testing.T) {
	t.Parallel()

	if got := None[int]().OrElse(7); got != 7 {
		t.Errorf("OrElse on absent = %d", got)
	}
	if got := Some(3).OrElse(7); got != 3 {
		t.Errorf("OrElse on present = %d", got)
	}
}
