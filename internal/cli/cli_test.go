package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

const runTable = `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,50
cma-es,f1,5,1,10,2
cma-es,f1,5,1,100,0.5
cma-es,f1,5,2,1,80
cma-es,f1,5,2,50,5
ga,f1,5,1,1,90
ga,f1,5,1,100,20
ga,f1,5,2,1,60
ga,f1,5,2,80,30
`

func writeRunTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte(runTable), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := Root()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestECDFCommand(t *testing.T) {
	out, err := execute(t, "ecdf", "-i", writeRunTable(t))

	require.NoError(t, err)
	assert.Contains(t, out, "Empirical CDF Summary (by_FV)")
	assert.Contains(t, out, "cma-es")
	assert.Contains(t, out, "ga")
}

func TestECDFCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "ecdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestECDFCommand_BadDimension(t *testing.T) {
	_, err := execute(t, "ecdf", "-i", writeRunTable(t), "--dimensions", "five")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dimension")
}

func TestECDFCommand_FiltersMatchNothing(t *testing.T) {
	_, err := execute(t, "ecdf", "-i", writeRunTable(t), "--algorithms", "nope")

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestECDFCommand_CustomMapping(t *testing.T) {
	dir := t.TempDir()

	mapping := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(mapping, []byte(`kind: RunMapping
version: v1
metadata:
  name: nevergrad export
columns:
  algorithm: optimizer
  function: func
  dimension: dim
  run: seed
  eval: budget
  value: loss
`), 0644))

	runs := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(runs, []byte(`optimizer,func,dim,seed,budget,loss
ng-opt,sphere,2,1,1,10
ng-opt,sphere,2,1,5,1
`), 0644))

	out, err := execute(t, "ecdf", "-i", runs, "--mapping", mapping)

	require.NoError(t, err)
	assert.Contains(t, out, "ng-opt")
}

func TestAUCCommand(t *testing.T) {
	out, err := execute(t, "auc", "-i", writeRunTable(t), "--from", "0", "--to", "100")

	require.NoError(t, err)
	assert.Contains(t, out, "Normalized Area Under the ECDF (0 to 100)")
	assert.Contains(t, out, "cma-es")
}

func TestAUCCommand_WindowRequired(t *testing.T) {
	_, err := execute(t, "auc", "-i", writeRunTable(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "to")
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "-i", writeRunTable(t), "--bootstrap", "5", "--seed", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "Pairwise Comparisons")
	assert.Contains(t, out, "cma-es")
	assert.Contains(t, out, "ga")
	assert.Contains(t, out, "green marks a significant win")
}

func TestRankCommand(t *testing.T) {
	out, err := execute(t, "rank", "-i", writeRunTable(t), "--rounds", "5", "--seed", "7")

	require.NoError(t, err)
	assert.Contains(t, out, "Glicko-2 Standings (5 rounds")
	assert.Contains(t, out, "cma-es")
	assert.Contains(t, out, "ga")
}

func TestTargetsCommand(t *testing.T) {
	out, err := execute(t, "targets", "-i", writeRunTable(t))

	require.NoError(t, err)
	assert.Contains(t, out, "cell")
	assert.Contains(t, out, "f1;5")
	assert.Contains(t, out, "t1")
}

func TestTargetsCommand_PerCellCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.csv")

	out, err := execute(t, "targets", "-i", writeRunTable(t), "--per-cell", "--csv", path)

	require.NoError(t, err)
	assert.Contains(t, out, "target table written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cell,target")
	assert.Contains(t, string(data), "f1;5,0.5")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()

	spec := filepath.Join(dir, "experiment.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`name: smoke
source:
  type: in_mem
analyses:
  ecdf:
    targets:
      scalar: 5
  auc:
    from: 0
    to: 100
`), 0644))

	jsonPath := filepath.Join(dir, "report.json")
	out, err := execute(t, "run", "-f", spec, "-i", writeRunTable(t), "-o", jsonPath)

	require.NoError(t, err)
	assert.Contains(t, out, "--- Experiment: smoke ---")
	assert.Contains(t, out, "Empirical CDF Summary")
	assert.Contains(t, out, "Normalized Area Under the ECDF")
	assert.Contains(t, out, "report written to "+jsonPath)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ecdf"`)
	assert.Contains(t, string(data), `"environment"`)
}

func TestRunCommand_InMemNeedsInput(t *testing.T) {
	spec := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`name: smoke
source:
  type: in_mem
analyses:
  ecdf: {}
`), 0644))

	_, err := execute(t, "run", "-f", spec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs -i")
}

func TestRunCommand_InvalidSpec(t *testing.T) {
	spec := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`name: smoke
source:
  type: in_mem
`), 0644))

	_, err := execute(t, "run", "-f", spec)

	require.Error(t, err)
	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "no analyses")
}
