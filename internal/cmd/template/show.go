package template

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// NewShowCmd creates the template show command.
func NewShowCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show <template>",
		Short: "Print a template document",
		Long: `Print a template document as YAML (the stored form) or JSON.

Examples:
  constrictor template show default
  constrictor template show api -o json
  constrictor template show ./templates/crud.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			f, err := output.ParseOutputFormat(format)
			if err != nil {
				return cmdutil.Fail("invalid output format", oerrors.NewValidationError(
					err.Error(), "", "output", "use -o yaml or -o json"))
			}

			tmpl, err := templates.Resolve(args[0], cfg.TemplateSearchDirs()...)
			if err != nil {
				return cmdutil.Fail("resolving template", err)
			}

			out, err := render(tmpl.Raw, f)
			if err != nil {
				return cmdutil.Fail("converting template", err)
			}
			_, err = c.OutOrStdout().Write(out)
			return err
		},
	}

	c.Flags().StringVarP(&format, "output", "o", "yaml", "Output format: "+strings.Join(output.ValidFormats(), ", "))
	return c
}

func render(raw []byte, f output.OutputFormat) ([]byte, error) {
	if f == output.FormatYAML {
		if !bytes.HasSuffix(raw, []byte("\n")) {
			raw = append(append([]byte(nil), raw...), '\n')
		}
		return raw, nil
	}

	js, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, js, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
