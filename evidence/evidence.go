// Package evidence renders and verifies the task evidence document.
//
// The document records the public preimage of a commitment (thread id,
// approval flag, policy fingerprint) alongside the commitment itself so that
// anyone holding it can recompute the callback data. Private figures and the
// risk score are never written.
//
// Rendering is canonical: fixed section order, keys sorted within a section,
// LF line endings, a trailing newline. Parse rejects any other encoding of
// the same record.
package evidence

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ipfs/go-cid"

	"xdao.co/lendingtask/cidutil"
	"xdao.co/lendingtask/commitment"
	"xdao.co/lendingtask/keccak"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
)

const (
	Preamble  = "-----BEGIN LENDING TASK EVIDENCE-----"
	Postamble = "-----END LENDING TASK EVIDENCE-----"

	SpecID = "lending-task-evidence-1"
)

// Record is the content of one evidence document.
type Record struct {
	ThreadID          string
	Approved          bool
	PolicyPresent     bool
	PolicyFingerprint string
	PolicyCID         string
	Timestamp         int64
	CallbackData      string
}

// NewRecord assembles the record for a finished computation.
func NewRecord(threadID string, result model.RiskResult, art policy.Artifact, callbackData string) Record {
	return Record{
		ThreadID:          threadID,
		Approved:          result.Approved,
		PolicyPresent:     art.Present,
		PolicyFingerprint: art.Fingerprint,
		PolicyCID:         art.CID,
		Timestamp:         result.Timestamp,
		CallbackData:      callbackData,
	}
}

// Render produces the canonical document bytes for r.
func Render(r Record) []byte {
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")

	sb.WriteString("META\n")
	sb.WriteString("Spec: " + SpecID + "\n")
	sb.WriteString("Version: 1\n")
	sb.WriteString("\n")

	// Keys are written in sorted order.
	sb.WriteString("INPUTS\n")
	if r.PolicyCID != "" {
		sb.WriteString("Policy-CID: " + r.PolicyCID + "\n")
	}
	sb.WriteString("Policy-Fingerprint: " + r.PolicyFingerprint + "\n")
	sb.WriteString("Policy-Present: " + strconv.FormatBool(r.PolicyPresent) + "\n")
	sb.WriteString("Thread-ID: " + strconv.Quote(r.ThreadID) + "\n")
	sb.WriteString("\n")

	sb.WriteString("RESULT\n")
	sb.WriteString("Approved: " + strconv.FormatBool(r.Approved) + "\n")
	sb.WriteString("Callback-Data: " + r.CallbackData + "\n")
	sb.WriteString("Timestamp: " + strconv.FormatInt(r.Timestamp, 10) + "\n")

	sb.WriteString(Postamble)
	sb.WriteString("\n")
	return []byte(sb.String())
}

// CID returns the CIDv1 (raw + keccak-256) of a canonical document.
func CID(doc []byte) (string, error) {
	if _, err := Parse(doc); err != nil {
		return "", err
	}
	return cidutil.CIDv1RawKeccak256(doc), nil
}

var sectionOrder = []string{"META", "INPUTS", "RESULT"}

// Parse decodes a canonical evidence document.
func Parse(doc []byte) (Record, error) {
	if !utf8.Valid(doc) {
		return Record{}, structural("evidence is not valid UTF-8")
	}
	s := string(doc)
	if !strings.HasPrefix(s, Preamble+"\n") || !strings.HasSuffix(s, "\n"+Postamble+"\n") {
		return Record{}, structural("missing evidence preamble or postamble")
	}
	body := s[len(Preamble)+1 : len(s)-len(Postamble)-1]

	sections := map[string]map[string]string{}
	var order []string
	current := ""
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			current = ""
			continue
		}
		if current == "" {
			if _, dup := sections[line]; dup {
				return Record{}, structural("duplicate section " + line)
			}
			sections[line] = map[string]string{}
			order = append(order, line)
			current = line
			continue
		}
		k, v, ok := strings.Cut(line, ": ")
		if !ok {
			return Record{}, structural(fmt.Sprintf("section %s: malformed line %q", current, line))
		}
		if _, dup := sections[current][k]; dup {
			return Record{}, structural(fmt.Sprintf("section %s: duplicate key %s", current, k))
		}
		sections[current][k] = v
	}
	if strings.Join(order, ",") != strings.Join(sectionOrder, ",") {
		return Record{}, structural("sections must be META, INPUTS, RESULT")
	}

	meta, inputs, result := sections["META"], sections["INPUTS"], sections["RESULT"]
	if meta["Spec"] != SpecID || meta["Version"] != "1" {
		return Record{}, model.NewError(model.KindEvidence, "TASK-EVD-003", "unsupported evidence spec or version")
	}

	var r Record
	var err error
	if r.ThreadID, err = strconv.Unquote(inputs["Thread-ID"]); err != nil {
		return Record{}, invalidField("Thread-ID", err)
	}
	if r.PolicyPresent, err = strconv.ParseBool(inputs["Policy-Present"]); err != nil {
		return Record{}, invalidField("Policy-Present", err)
	}
	r.PolicyFingerprint = inputs["Policy-Fingerprint"]
	r.PolicyCID = inputs["Policy-CID"]
	if r.Approved, err = strconv.ParseBool(result["Approved"]); err != nil {
		return Record{}, invalidField("Approved", err)
	}
	if r.Timestamp, err = strconv.ParseInt(result["Timestamp"], 10, 64); err != nil {
		return Record{}, invalidField("Timestamp", err)
	}
	r.CallbackData = result["Callback-Data"]

	if !bytes.Equal(Render(r), doc) {
		return Record{}, model.NewError(model.KindEvidence, "TASK-EVD-002", "evidence is not canonical")
	}
	return r, nil
}

// Verify parses doc and checks that its callback data is the commitment of
// its own preimage and that the policy fields agree with each other.
func Verify(doc []byte) (Record, error) {
	r, err := Parse(doc)
	if err != nil {
		return Record{}, err
	}
	if !keccak.IsHex(r.PolicyFingerprint) {
		return Record{}, invalidField("Policy-Fingerprint", nil)
	}
	if !keccak.IsHex(r.CallbackData) {
		return Record{}, invalidField("Callback-Data", nil)
	}

	if r.PolicyPresent {
		if err := checkPolicyCID(r); err != nil {
			return Record{}, err
		}
	} else if r.PolicyFingerprint != policy.ZeroFingerprint || r.PolicyCID != "" {
		return Record{}, model.NewError(model.KindEvidence, "TASK-EVD-012",
			"absent policy must use the zero fingerprint and no CID")
	}

	if want := commitment.Compute(r.Approved, r.ThreadID, r.PolicyFingerprint); want != r.CallbackData {
		return Record{}, model.NewError(model.KindEvidence, "TASK-EVD-010",
			fmt.Sprintf("callback data %s does not match commitment %s", r.CallbackData, want))
	}
	return r, nil
}

func checkPolicyCID(r Record) error {
	if r.PolicyCID == "" {
		return model.NewError(model.KindEvidence, "TASK-EVD-012", "present policy requires Policy-CID")
	}
	id, err := cid.Decode(r.PolicyCID)
	if err != nil {
		return model.WrapError(model.KindEvidence, "TASK-EVD-011", "invalid Policy-CID", err)
	}
	digest, ok := cidutil.Keccak256Digest(id)
	if !ok {
		return model.NewError(model.KindEvidence, "TASK-EVD-011", "Policy-CID is not keccak-256")
	}
	if "0x"+hex.EncodeToString(digest) != r.PolicyFingerprint {
		return model.NewError(model.KindEvidence, "TASK-EVD-011", "Policy-CID does not match Policy-Fingerprint")
	}
	return nil
}

func structural(msg string) error {
	return model.NewError(model.KindEvidence, "TASK-EVD-001", msg)
}

func invalidField(field string, cause error) error {
	return model.WrapError(model.KindEvidence, "TASK-EVD-003", "invalid "+field, cause)
}
