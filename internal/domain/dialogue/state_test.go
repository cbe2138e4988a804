package dialogue

import "testing"

func TestNext(t *testing.T) {
	tests := []struct {
		from, want State
	}{
		{Initial, Purpose},
		{Purpose, Size},
		{Size, Budget},
		{Budget, Brand},
		{Brand, Features},
		{Features, Performance},
		{Performance, Refine},
		{Refine, Refine},
		{State("bogus"), Refine},
	}
	for _, tt := range tests {
		if got := tt.from.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.from, got, tt.want)
		}
	}
}

func TestQuestionsCoverAllStates(t *testing.T) {
	for _, s := range States() {
		if !s.Valid() || s.Question() == "" {
			t.Errorf("state %s has no question", s)
		}
	}
	if State("bogus").Valid() {
		t.Error("unknown state reported valid")
	}
}
