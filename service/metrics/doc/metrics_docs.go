package doc

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devnet-tools/faucet/service/metrics"
)

type metricDocumenter interface {
	Document() []metrics.DocumentedMetric
}

// NewSubcommands returns a `metrics` subcommand that dumps the
// supported metrics of the given metricer as a markdown table.
func NewSubcommands(m metricDocumenter) cli.Commands {
	return cli.Commands{
		{
			Name:  "metrics",
			Usage: "Dumps a list of supported metrics to stdout",
			Action: func(ctx *cli.Context) error {
				supportedMetrics := m.Document()
				var b strings.Builder
				b.WriteString("| Metric | Description | Labels | Type |\n")
				b.WriteString("|--------|-------------|--------|------|\n")
				for _, metric := range supportedMetrics {
					labels := strings.Join(metric.Labels, ",")
					b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
						metric.Name, metric.Help, labels, metric.Type))
				}
				_, err := fmt.Fprint(ctx.App.Writer, b.String())
				return err
			},
		},
	}
}
