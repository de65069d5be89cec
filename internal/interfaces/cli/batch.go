package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/pkg/errors"
)

type batchOptions struct {
	failOnError bool
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Compute every chart listed in a YAML or JSON file",
		Long: "batch reads a list of chart requests, either as a top-level sequence or\n" +
			"under a \"charts\" key, from FILE (\"-\" reads stdin).  Entries fail\n" +
			"independently; the result keeps the input order.",
		Example: `  saju batch births.yaml
  cat births.json | saju batch - -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "exit non-zero when any entry fails")
	return cmd
}

func runBatch(cmd *cobra.Command, path string, opts *batchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	reqs, err := decodeBatch(data)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	res, err := cliCtx.Service.ComputeBatch(ctx, reqs)
	if err != nil {
		return err
	}
	if err := PrintResult(cmd, batchView{res}); err != nil {
		return err
	}
	if opts.failOnError && res.Failed > 0 {
		return errors.Newf(errors.ErrCodeInvalidBirthInput, "%d of %d charts failed", res.Failed, len(res.Items))
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "read batch file")
	}
	return data, nil
}

// decodeBatch parses YAML (and therefore JSON) into requests.  The document
// is normalised through JSON so the request's json field names apply to
// nested values as well.
func decodeBatch(data []byte) ([]*chart.ChartRequest, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed batch document")
	}
	if m, ok := doc.(map[string]interface{}); ok {
		charts, found := m["charts"]
		if !found || len(m) != 1 {
			return nil, errors.New(errors.ErrCodeBadRequest, "batch document must be a list or hold only a \"charts\" list")
		}
		doc = charts
	}
	if _, ok := doc.([]interface{}); !ok {
		return nil, errors.New(errors.ErrCodeBadRequest, "batch document must be a list of chart requests")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "batch document is not representable as JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var reqs []*chart.ChartRequest
	if err := dec.Decode(&reqs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid chart request in batch")
	}
	return reqs, nil
}

type batchView struct {
	res *chart.BatchResult
}

func (v batchView) JSONValue() interface{} { return v.res }

func (v batchView) TableHeaders() []string {
	return []string{"#", "ID", "PILLARS", "PATTERN", "YONGSHIN", "ERROR"}
}

func (v batchView) TableRows() [][]string {
	rows := make([][]string, len(v.res.Items))
	for i, it := range v.res.Items {
		row := []string{strconv.Itoa(it.Index), "", "", "", "", ""}
		if it.Chart != nil {
			row[1] = it.Chart.ID
			row[2] = it.Chart.Pillars.String()
			row[3] = string(it.Chart.Pattern.Pattern)
			row[4] = it.Chart.Yongshin.Final.String()
		}
		if it.Error != nil {
			row[5] = it.Error.Message
		}
		rows[i] = row
	}
	return rows
}

func (v batchView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %s: %d succeeded, %d failed\n", v.res.ID, v.res.Succeeded, v.res.Failed)
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	return sb.String()
}

//Personal.AI order the ending
