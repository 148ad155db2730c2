package task

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"xdao.co/lendingtask/commitment"
	"xdao.co/lendingtask/config"
	"xdao.co/lendingtask/evidence"
	"xdao.co/lendingtask/input"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
	"xdao.co/lendingtask/risk"
	"xdao.co/lendingtask/storage"
	"xdao.co/lendingtask/storage/localfs"
)

// Options carries collaborators that are not configuration.
type Options struct {
	Logger *zap.Logger
	// Stdout receives the human-readable result line. Nil discards it.
	Stdout io.Writer
	// Store overrides the evidence store built from Config.EvidenceDir.
	Store storage.CAS
	// Rules overrides risk.DefaultRules; Mode is always taken from Config.
	Rules *risk.Rules
}

// Outcome describes a completed run.
type Outcome struct {
	RunID        string
	ThreadID     string
	Risk         model.RiskResult
	Policy       policy.Artifact
	CallbackData string
	OutputPath   string
	// EvidenceCID is empty when no evidence store is configured.
	EvidenceCID string
}

// Run executes the pipeline once. On error no output file is written.
func Run(cfg config.Config, opts Options) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", runID))
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}

	rec, err := LoadInput(cfg.InputPath())
	if err != nil {
		return nil, err
	}
	threadID := rec.PublicMetadata.ThreadID
	if !input.IsNormalizedThreadID(threadID) {
		log.Warn("threadId is not NFC-normalized; committing to its raw bytes", zap.String("thread_id", threadID))
	}

	art, err := LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}
	if art.Present {
		log.Info("policy fingerprinted",
			zap.String("path", cfg.PolicyPath),
			zap.String("fingerprint", art.Fingerprint),
			zap.String("cid", art.CID),
			zap.Int("bytes", art.Size))
	} else {
		log.Warn("policy file not found; using zero fingerprint", zap.String("path", cfg.PolicyPath))
	}

	rules := risk.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	rules.Mode = cfg.Mode
	result, err := risk.Evaluate(rec.PrivateData, rules)
	if err != nil {
		return nil, err
	}

	hash := commitment.Compute(result.Approved, threadID, art.Fingerprint)

	out := &Outcome{
		RunID:        runID,
		ThreadID:     threadID,
		Risk:         result,
		Policy:       art,
		CallbackData: hash,
		OutputPath:   cfg.OutputPath(),
	}

	// Fail on a missing output directory before anything is persisted.
	if err := checkOutputDir(filepath.Dir(out.OutputPath)); err != nil {
		return nil, err
	}

	store, err := evidenceStore(cfg, opts)
	if err != nil {
		return nil, err
	}
	if store != nil {
		id, err := store.Put(evidence.Render(evidence.NewRecord(threadID, result, art, hash)))
		if err != nil {
			return nil, model.WrapError(model.KindEvidence, "TASK-EVD-020", "store evidence", err)
		}
		out.EvidenceCID = id.String()
		log.Info("evidence stored", zap.String("cid", out.EvidenceCID))
	}

	fmt.Fprintf(stdout, "Computed Hash: %s\n", hash)

	if err := WriteCallback(out.OutputPath, hash); err != nil {
		return nil, err
	}
	log.Info("callback written",
		zap.String("thread_id", threadID),
		zap.Bool("approved", result.Approved),
		zap.String("callback_data", hash),
		zap.String("path", out.OutputPath))
	return out, nil
}

func evidenceStore(cfg config.Config, opts Options) (storage.CAS, error) {
	if opts.Store != nil {
		return opts.Store, nil
	}
	if cfg.EvidenceDir == "" {
		return nil, nil
	}
	cas, err := localfs.New(cfg.EvidenceDir)
	if err != nil {
		return nil, model.WrapError(model.KindEvidence, "TASK-EVD-021", "open evidence store", err)
	}
	return cas, nil
}
