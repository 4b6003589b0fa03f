package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/requestkit/codec"
	"github.com/gaborage/requestkit/request"
)

// NewBuildCommand creates the build command
func NewBuildCommand(global *GlobalOptions) *cobra.Command {
	opts := &RequestOptions{}

	cmd := &cobra.Command{
		Use:   "build URL",
		Short: "Print the request descriptor without sending it",
		Long: `Builds the request described by the flags and prints the resulting
descriptor as JSON. Nothing is sent.`,
		Example: `  # Inspect a GET with ordered query items
  requestkit build https://api.example.com/items -q page=1 -q tag=a -q tag=b

  # Inspect a JSON POST
  requestkit build https://api.example.com/items -X POST -d '{"name":"widget"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, global, opts, args[0])
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// descriptorOutput is the JSON form of a request.Descriptor.
type descriptorOutput struct {
	Method      string              `json:"method"`
	URL         string              `json:"url"`
	Headers     map[string][]string `json:"headers"`
	CachePolicy string              `json:"cache_policy"`
	Timeout     string              `json:"timeout"`
	Body        json.RawMessage     `json:"body,omitempty"`
	BodyBase64  string              `json:"body_base64,omitempty"`
}

func runBuild(cmd *cobra.Command, global *GlobalOptions, opts *RequestOptions, rawURL string) error {
	cfg, _, err := global.load(cmd)
	if err != nil {
		return err
	}
	spec, err := opts.spec(cfg, rawURL)
	if err != nil {
		return err
	}
	d, err := spec.Build()
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return writeDescriptor(cmd.OutOrStdout(), d)
}

func writeDescriptor(w io.Writer, d *request.Descriptor) error {
	out := descriptorOutput{
		Method:      d.Method().String(),
		URL:         d.URL().String(),
		Headers:     d.Header(),
		CachePolicy: d.CachePolicy().String(),
		Timeout:     d.Timeout().String(),
	}
	if d.HasBody() {
		if d.Header().Get(codec.HeaderContentType) == codec.JSON.String() {
			out.Body = d.Body()
		} else {
			out.BodyBase64 = base64.StdEncoding.EncodeToString(d.Body())
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
