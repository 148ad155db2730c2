package evidence

import (
	"bytes"
	"strings"
	"testing"

	"xdao.co/lendingtask/commitment"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
	"xdao.co/lendingtask/risk"
)

func sampleRecord(t *testing.T, threadID string, art policy.Artifact) Record {
	t.Helper()
	res := model.RiskResult{Approved: true, RiskScore: 50, Timestamp: risk.FixedTimestamp}
	return NewRecord(threadID, res, art, commitment.Compute(res.Approved, threadID, art.Fingerprint))
}

func TestRender_Deterministic(t *testing.T) {
	r := sampleRecord(t, "T1", policy.Absent())
	a := Render(r)
	b := Render(r)
	if !bytes.Equal(a, b) {
		t.Fatalf("Render not deterministic")
	}
	if !bytes.HasPrefix(a, []byte(Preamble+"\nMETA\n")) {
		t.Fatalf("unexpected prefix:\n%s", a)
	}
	if bytes.Contains(a, []byte("Policy-CID")) {
		t.Fatalf("absent policy must omit Policy-CID:\n%s", a)
	}
	if bytes.Contains(a, []byte("Risk")) {
		t.Fatalf("risk score must not be written:\n%s", a)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	for _, art := range []policy.Artifact{policy.Absent(), policy.FromBytes([]byte("program p.aleo;"))} {
		r := sampleRecord(t, "thread\nwith \"quotes\"", art)
		got, err := Verify(Render(r))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if got != r {
			t.Fatalf("round trip: got %+v want %+v", got, r)
		}
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	r := sampleRecord(t, "T1", policy.FromBytes([]byte("v1")))
	doc := string(Render(r))

	cases := []struct {
		name string
		doc  string
		rule string
	}{
		{"flipped approval", strings.Replace(doc, "Approved: true", "Approved: false", 1), "TASK-EVD-010"},
		{"changed thread", strings.Replace(doc, `Thread-ID: "T1"`, `Thread-ID: "T2"`, 1), "TASK-EVD-010"},
		{"swapped policy cid", strings.Replace(doc, r.PolicyCID, policy.FromBytes([]byte("v2")).CID, 1), "TASK-EVD-011"},
		{"crlf", strings.ReplaceAll(doc, "\n", "\r\n"), "TASK-EVD-001"},
		{"missing postamble", strings.TrimSuffix(doc, Postamble+"\n"), "TASK-EVD-001"},
		{"non-canonical bool", strings.Replace(doc, "Approved: true", "Approved: 1", 1), "TASK-EVD-002"},
		{"wrong spec", strings.Replace(doc, SpecID, "other-spec", 1), "TASK-EVD-003"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Verify([]byte(tc.doc))
			if !model.IsKind(err, model.KindEvidence) {
				t.Fatalf("expected Evidence error, got %v", err)
			}
			if got := model.RuleID(err); got != tc.rule {
				t.Fatalf("RuleID: got %s want %s (%v)", got, tc.rule, err)
			}
		})
	}
}

func TestVerify_AbsentPolicyConsistency(t *testing.T) {
	r := sampleRecord(t, "T1", policy.Absent())
	r.PolicyFingerprint = policy.Fingerprint([]byte("x"))
	r.CallbackData = commitment.Compute(r.Approved, r.ThreadID, r.PolicyFingerprint)
	_, err := Verify(Render(r))
	if got := model.RuleID(err); got != "TASK-EVD-012" {
		t.Fatalf("RuleID: got %s want TASK-EVD-012 (%v)", got, err)
	}
}

func TestCID_StableAndRejectsGarbage(t *testing.T) {
	doc := Render(sampleRecord(t, "T1", policy.Absent()))
	a, err := CID(doc)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	b, err := CID(append([]byte(nil), doc...))
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if a != b || a == "" {
		t.Fatalf("CID unstable: %q vs %q", a, b)
	}
	if _, err := CID([]byte("not evidence")); err == nil {
		t.Fatalf("expected error for non-evidence bytes")
	}
}
