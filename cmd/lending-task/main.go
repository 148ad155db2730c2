package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xdao.co/lendingtask/config"
	"xdao.co/lendingtask/evidence"
	"xdao.co/lendingtask/internal/logging"
	"xdao.co/lendingtask/model"
	"xdao.co/lendingtask/policy"
	"xdao.co/lendingtask/task"
)

// policyPath is where the task image bundles the policy definition.
var policyPath = policy.DefaultPath

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv))
}

// run returns 0 on success, 1 when the task or a check fails and 2 on
// usage errors.
func run(args []string, out io.Writer, errOut io.Writer, lookup config.LookupFunc) int {
	root := newRootCmd(out, errOut, lookup)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	if err == nil {
		return 0
	}
	if kind := model.KindOf(err); kind != "" {
		fmt.Fprintf(errOut, "lending-task: %s [%s]: %v\n", kind, model.RuleID(err), err)
		return 1
	}
	fmt.Fprintf(errOut, "lending-task: %v\n", err)
	fmt.Fprintln(errOut, root.UsageString())
	return 2
}

func newRootCmd(out io.Writer, errOut io.Writer, lookup config.LookupFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "lending-task",
		Short: "Evaluate a confidential loan request and write the oracle callback",
		Long: `Reads $IEXEC_IN/sample_input.json, fingerprints the bundled policy,
applies the lending rule and writes {"callback-data": <commitment>} to
$IEXEC_OUT/computed.json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv(lookup)
			if err != nil {
				return err
			}
			cfg.PolicyPath = policyPath
			logger := logging.New(errOut, cfg.LogLevel)
			defer func() { _ = logger.Sync() }()

			if _, err := task.Run(cfg, task.Options{Logger: logger, Stdout: out}); err != nil {
				logger.Error("task failed",
					zap.String("kind", string(model.KindOf(err))),
					zap.String("rule_id", model.RuleID(err)),
					zap.Error(err))
				return err
			}
			return nil
		},
	}
	root.AddCommand(newFingerprintCmd(out), newVerifyEvidenceCmd(out))
	return root
}

func newFingerprintCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the policy fingerprint and CID of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return model.WrapError(model.KindPolicy, "TASK-POL-001", "read policy file", err)
			}
			art := policy.FromBytes(b)
			fmt.Fprintf(out, "fingerprint: %s\n", art.Fingerprint)
			fmt.Fprintf(out, "cid: %s\n", art.CID)
			return nil
		},
	}
}

func newVerifyEvidenceCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-evidence <file>",
		Short: "Check that an evidence document matches its callback data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return model.WrapError(model.KindEvidence, "TASK-EVD-030", "read evidence file", err)
			}
			rec, err := evidence.Verify(b)
			if err != nil {
				return err
			}
			id, err := evidence.CID(b)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "OK thread=%q approved=%t callback-data=%s cid=%s\n",
				rec.ThreadID, rec.Approved, rec.CallbackData, id)
			return nil
		},
	}
}
