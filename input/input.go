// Package input decodes the task input document.
//
// Decoding is strict about the fields the computation depends on: a missing
// or mistyped field is a MalformedInput error, never a zero value, because a
// zero threadId or amount would still yield a well-formed (and wrong)
// commitment. Keys match exactly, including case. Unknown fields are ignored.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"xdao.co/lendingtask/model"
)

// DefaultFileName is the input file name inside the host input directory.
const DefaultFileName = "sample_input.json"

type object map[string]json.RawMessage

// Parse decodes b into an InputRecord. JSON null counts as missing.
func Parse(b []byte) (model.InputRecord, error) {
	// encoding/json would substitute U+FFFD and commit to bytes not in the input.
	if !utf8.Valid(b) {
		return model.InputRecord{}, model.NewError(model.KindMalformedInput, "TASK-PARSE-001", "input is not valid UTF-8")
	}

	var root object
	if err := json.Unmarshal(b, &root); err != nil {
		return model.InputRecord{}, decodeError("", err)
	}
	if root == nil {
		return model.InputRecord{}, model.NewError(model.KindMalformedInput, "TASK-PARSE-002", "input document must be a JSON object")
	}

	meta, err := member[object](root, "", "public_metadata", "TASK-PARSE-101")
	if err != nil {
		return model.InputRecord{}, err
	}
	threadID, err := member[string](meta, "public_metadata.", "threadId", "TASK-PARSE-102")
	if err != nil {
		return model.InputRecord{}, err
	}
	private, err := member[object](root, "", "private_data", "TASK-PARSE-103")
	if err != nil {
		return model.InputRecord{}, err
	}
	loan, err := member[float64](private, "private_data.", "loanAmount", "TASK-PARSE-104")
	if err != nil {
		return model.InputRecord{}, err
	}
	collateral, err := member[float64](private, "private_data.", "collateralValue", "TASK-PARSE-105")
	if err != nil {
		return model.InputRecord{}, err
	}
	score, err := member[float64](private, "private_data.", "creditScore", "TASK-PARSE-106")
	if err != nil {
		return model.InputRecord{}, err
	}

	return model.InputRecord{
		PublicMetadata: model.PublicMetadata{ThreadID: threadID},
		PrivateData: model.PrivateData{
			LoanAmount:      loan,
			CollateralValue: collateral,
			CreditScore:     score,
		},
	}, nil
}

// member decodes obj[key] (exact match) into T. Absent keys and null
// values fail with missingRule.
func member[T any](obj object, prefix, key, missingRule string) (T, error) {
	var zero T
	raw, ok := obj[key]
	if !ok {
		return zero, missing(missingRule, prefix+key)
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, decodeError(prefix+key, err)
	}
	if v == nil {
		return zero, missing(missingRule, prefix+key)
	}
	return *v, nil
}

// IsNormalizedThreadID reports whether id is already in Unicode NFC.
// Callers use it for diagnostics only; the id is never rewritten.
func IsNormalizedThreadID(id string) bool {
	return norm.NFC.IsNormalString(id)
}

func missing(ruleID, field string) error {
	return model.NewError(model.KindMalformedInput, ruleID, "missing required field "+field)
}

func decodeError(field string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if field == "" {
			return model.WrapError(model.KindMalformedInput, "TASK-PARSE-002",
				"input document must be a JSON object", err)
		}
		return model.WrapError(model.KindMalformedInput, "TASK-PARSE-002",
			fmt.Sprintf("field %s: expected %s, got JSON %s", field, typeErr.Type, typeErr.Value), err)
	}
	return model.WrapError(model.KindMalformedInput, "TASK-PARSE-001", "input is not valid JSON", err)
}
