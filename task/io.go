package task

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"xdao.co/lendingtask/input"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
)

// LoadInput reads and decodes the input document at path.
func LoadInput(path string) (model.InputRecord, error) {
	// #nosec G304 -- path is resolved from host configuration.
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.InputRecord{}, model.WrapError(model.KindInputNotFound, "TASK-IN-001",
				"input file not found at "+path, err)
		}
		return model.InputRecord{}, model.WrapError(model.KindInputNotFound, "TASK-IN-002",
			"input file unreadable at "+path, err)
	}
	return input.Parse(b)
}

// LoadPolicy fingerprints the policy file at path. A missing file is not an
// error; any other read failure is.
func LoadPolicy(path string) (policy.Artifact, error) {
	// #nosec G304 -- fixed policy location from configuration.
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return policy.Absent(), nil
		}
		return policy.Artifact{}, model.WrapError(model.KindPolicy, "TASK-POL-001",
			"policy file unreadable at "+path, err)
	}
	return policy.FromBytes(b), nil
}

// WriteCallback writes {"callback-data": hash} to path, replacing any
// existing file. The document is written to a temporary file in the same
// directory and renamed into place, so readers never see a partial file.
// The directory must already exist.
func WriteCallback(path, callbackData string) error {
	dir := filepath.Dir(path)
	if err := checkOutputDir(dir); err != nil {
		return err
	}

	doc, err := json.Marshal(model.CallbackDocument{CallbackData: callbackData})
	if err != nil {
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-002", "encode callback document", err)
	}

	f, err := os.CreateTemp(dir, ".callback-*.tmp")
	if err != nil {
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-002", "create output file", err)
	}
	tmp := f.Name()
	fail := func(msg string, cause error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-002", msg, cause)
	}

	if _, err := f.Write(doc); err != nil {
		return fail("write output file", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync output file", err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fail("chmod output file", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-002", "close output file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-002", "move output file into place", err)
	}
	return nil
}

func checkOutputDir(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return model.WrapError(model.KindOutputWrite, "TASK-OUT-001", "output directory unavailable: "+dir, err)
	}
	if !st.IsDir() {
		return model.NewError(model.KindOutputWrite, "TASK-OUT-001", "output path parent is not a directory: "+dir)
	}
	return nil
}
