package integration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/actuarial-calculator/cmd/actcalc/cmd"
)

func TestCLIRunBatch(t *testing.T) {
	var out bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", examplePath, "--format", "csv"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Name,Type,Status,Metric,Value,Detail")
	assert.Contains(t, out.String(), "Savings growth,tvm,ok,Future value,\"$1,628.89\"")
}

func TestCLIRejectsMissingFile(t *testing.T) {
	root := cmd.NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "../testdata/does_not_exist.yaml"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
