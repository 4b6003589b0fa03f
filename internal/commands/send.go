package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gaborage/requestkit/httpclient"
	"github.com/gaborage/requestkit/observability"
	"github.com/gaborage/requestkit/request"
)

// NewSendCommand creates the send command
func NewSendCommand(global *GlobalOptions) *cobra.Command {
	opts := &RequestOptions{}

	cmd := &cobra.Command{
		Use:   "send URL [URL...]",
		Short: "Send requests with the configured retry strategy",
		Long: `Sends one request per URL, all described by the same flags. Requests run
concurrently up to client.concurrency and are retried according to the retry
section of the configuration. Each response is printed in argument order.`,
		Example: `  # Send a GET
  requestkit send https://api.example.com/items -q page=2

  # Send a JSON POST with a custom header and no retries
  REQUESTKIT_RETRY_STRATEGY=none requestkit send https://api.example.com/items \
    -X POST -H "Authorization: Bearer abc" -d '{"name":"widget"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, global, opts, args)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runSend(cmd *cobra.Command, global *GlobalOptions, opts *RequestOptions, urls []string) error {
	cfg, log, err := global.load(cmd)
	if err != nil {
		return err
	}

	specs := make([]request.Spec, len(urls))
	for i, rawURL := range urls {
		if specs[i], err = opts.spec(cfg, rawURL); err != nil {
			return err
		}
	}

	obsCfg := cfg.Observability.Settings()
	obsCfg.Output = cmd.ErrOrStderr()
	provider, err := observability.NewProvider(&obsCfg)
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}
	observability.Install(provider)
	defer func() {
		if err := observability.Shutdown(provider, observability.DefaultShutdownTimeout); err != nil {
			log.Warn().Err(err).Msg("Observability shutdown failed")
		}
	}()

	settings := cfg.Client.Settings()
	settings.Timeout = cfg.Request.Timeout
	client := httpclient.NewBuilderFromConfig(log, settings).
		WithTracerProvider(provider.TracerProvider()).
		Build()

	responses, sendErr := httpclient.DoAll(cmd.Context(), client, specs, cfg.Client.Concurrency)

	out := cmd.OutOrStdout()
	for i, resp := range responses {
		if resp == nil {
			continue
		}
		if len(urls) > 1 {
			fmt.Fprintf(out, "==> %s\n", urls[i])
		}
		writeResponse(out, resp)
	}
	return sendErr
}

func writeResponse(w io.Writer, resp *httpclient.Response) {
	fmt.Fprintf(w, "HTTP %d %s (attempts: %d, elapsed: %s)\n",
		resp.StatusCode, http.StatusText(resp.StatusCode), resp.Stats.Attempts, resp.Stats.ElapsedTime)
	if len(resp.Body) == 0 {
		return
	}
	_, _ = w.Write(resp.Body)
	if !bytes.HasSuffix(resp.Body, []byte("\n")) {
		fmt.Fprintln(w)
	}
}
