package dialogue

import "testing"

func TestStore_StartResetLen(t *testing.T) {
	t.Parallel()
	s := NewStore()
	if got := s.Get(1); got.State != StateIdle || s.Len() != 0 {
		t.Fatalf("Get on empty store = %+v, len %d", got, s.Len())
	}

	first := s.Start(1)
	first.QueryName = "Dune"
	second := s.Start(1)
	if second == first || second.QueryName != "" || s.Len() != 1 {
		t.Errorf("Start should replace the session: %+v", second)
	}

	s.Start(2)
	s.Reset(1)
	if s.Len() != 1 || s.Get(1).State != StateIdle {
		t.Errorf("Reset did not drop user 1")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	if StateAwaitingInstagramURL.String() != "awaiting_instagram_url" || State(99).String() != "unknown" {
		t.Error("unexpected state labels")
	}
}
