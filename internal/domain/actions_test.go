package domain

import "testing"

func TestActionInverseRoundTrip(t *testing.T) {
	for _, typ := range []ActionType{
		ActionHide, ActionUnhide, ActionDelete, ActionUndelete, ActionSuspend, ActionUnsuspend,
	} {
		inv, ok := typ.Inverse()
		if !ok {
			t.Fatalf("no inverse for %s", typ)
		}
		back, ok := inv.Inverse()
		if !ok || back != typ {
			t.Fatalf("inverse of %s does not round-trip, got %s", typ, back)
		}
	}
}

func TestContentStateAfter(t *testing.T) {
	cases := []struct {
		typ  ActionType
		want ContentState
	}{
		{ActionHide, ContentStateHidden},
		{ActionDelete, ContentStateDeleted},
		{ActionUnhide, ContentStateVisible},
		{ActionUndelete, ContentStateVisible},
	}
	for _, tc := range cases {
		got, ok := tc.typ.ContentStateAfter()
		if !ok || got != tc.want {
			t.Fatalf("ContentStateAfter(%s) = %s, want %s", tc.typ, got, tc.want)
		}
	}
	if _, ok := ActionSuspend.ContentStateAfter(); ok {
		t.Fatalf("suspend is not a content action")
	}
}

func TestTargetsUser(t *testing.T) {
	if !ActionSuspend.TargetsUser() || !ActionUnsuspend.TargetsUser() {
		t.Fatalf("suspend actions must target users")
	}
	if ActionHide.TargetsUser() || ActionDelete.TargetsUser() {
		t.Fatalf("content actions must not target users")
	}
}

func TestSuspendsUser(t *testing.T) {
	suspended, ok := ActionSuspend.SuspendsUser()
	if !ok || !suspended {
		t.Fatalf("suspend must suspend")
	}
	suspended, ok = ActionUnsuspend.SuspendsUser()
	if !ok || suspended {
		t.Fatalf("unsuspend must lift the suspension")
	}
	if _, ok := ActionHide.SuspendsUser(); ok {
		t.Fatalf("hide is not a user action")
	}
}
