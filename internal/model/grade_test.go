package model

import (
	"encoding/json"
	"testing"
)

func TestEffectiveStatusMarshal(t *testing.T) {
	cases := []struct {
		name   string
		status EffectiveStatus
		want   string
	}{
		{"no grade", EffectiveStatus{}, `"pending_release"`},
		{"draft", EffectiveStatus{HasGrade: true, Status: GradeStatusDraft}, `"draft"`},
		{"pending", EffectiveStatus{HasGrade: true, Status: GradeStatusPending}, `"pending_release"`},
		{"released", EffectiveStatus{HasGrade: true, Status: GradeStatusReleased}, `"released"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.status)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, raw)
			}
		})
	}
}

func TestEffectiveStatusRoundTrip(t *testing.T) {
	for _, status := range []EffectiveStatus{
		{},
		{HasGrade: true, Status: GradeStatusDraft},
		{HasGrade: true, Status: GradeStatusReleased},
	} {
		raw, err := json.Marshal(status)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded EffectiveStatus
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		reencoded, err := json.Marshal(decoded)
		if err != nil {
			t.Fatalf("re-marshal: %v", err)
		}
		if string(reencoded) != string(raw) {
			t.Fatalf("round trip changed the wire form: %s -> %s", raw, reencoded)
		}
	}
}

func TestEffectiveStatusOf(t *testing.T) {
	if s := EffectiveStatusOf(nil); s.HasGrade {
		t.Fatalf("nil grade must yield the no-grade variant")
	}
	g := &Grade{Status: GradeStatusDraft}
	if s := EffectiveStatusOf(g); !s.HasGrade || s.Status != GradeStatusDraft {
		t.Fatalf("unexpected status for draft grade: %+v", s)
	}
}
