// Package main implements the cfn-rds-integration binary, a local invoker
// for the AWS::RDS::Integration CloudFormation handlers. It runs a single
// handler invocation from a request JSON, or drives the reconciliation to a
// terminal state by re-invoking with the returned callback context.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/rdsops/cfn-rds-integration/internal/integration"
	"github.com/rdsops/cfn-rds-integration/internal/logging"
)

// settings are the environment-driven runtime options.
type settings struct {
	Region   string `env:"AWS_REGION"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogJSON  bool   `env:"LOG_JSON,default=true"`
}

// invokeRequest is the request document read from the --request file: the
// handler request plus the operation kind and an optional callback context
// from a previous invocation.
type invokeRequest struct {
	Operation integration.Operation `json:"operation"`
	integration.Request
	CallbackContext *integration.CallbackContext `json:"callbackContext,omitempty"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cfn-rds-integration: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cfn-rds-integration",
		Short:         "CloudFormation resource handlers for AWS::RDS::Integration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInvokeCmd())
	return root
}

func newInvokeCmd() *cobra.Command {
	var (
		requestPath    string
		drive          bool
		maxInvocations int
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run a handler invocation from a request JSON",
		Long: "Reads a handler request document (operation, desired/previous state, " +
			"tags, optional callback context) and runs one invocation. With --drive, " +
			"re-invokes after each requested callback delay until the handler reaches " +
			"a terminal state.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInvoke(cmd.Context(), requestPath, drive, maxInvocations)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-",
		"path to the request JSON, or - for stdin")
	cmd.Flags().BoolVar(&drive, "drive", false,
		"re-invoke until the handler reaches a terminal state")
	cmd.Flags().IntVar(&maxInvocations, "max-invocations", 200,
		"invocation ceiling when driving")
	return cmd
}

func runInvoke(ctx context.Context, requestPath string, drive bool, maxInvocations int) error {
	var cfg settings
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	logging.Init(logging.Config{
		Level:      logging.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})

	req, err := readRequest(requestPath)
	if err != nil {
		return err
	}
	if req.ClientRequestToken == "" {
		req.ClientRequestToken = uuid.NewString()
	}

	var loadOpts []func(*awscfg.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(cfg.Region))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	h := integration.NewHandler(rds.NewFromConfig(awsCfg))

	event := h.Handle(ctx, req.Operation, req.Request, req.CallbackContext)
	for invocations := 1; drive && !event.IsTerminal(); invocations++ {
		if invocations >= maxInvocations {
			return fmt.Errorf("no terminal state after %d invocations", invocations)
		}
		if delay := event.CallbackDelaySeconds; delay > 0 {
			time.Sleep(time.Duration(delay) * time.Second)
		}
		event = h.Handle(ctx, req.Operation, req.Request, event.CallbackContext)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("encode progress event: %w", err)
	}
	if event.IsFailed() {
		return fmt.Errorf("%s failed: %s (%s)", req.Operation, event.Message, event.ErrorCode)
	}
	return nil
}

// readRequest loads and decodes the invoke request document.
func readRequest(path string) (*invokeRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	var req invokeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request JSON: %w", err)
	}
	if req.Operation == "" {
		return nil, fmt.Errorf("request is missing the operation field")
	}
	return &req, nil
}
